// Package cli реализует операторскую утилиту jobhunterctl: те же операции пробного
// периода, что и HTTP API, но напрямую против настроенного хранилища.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/jobhunter/internal/models"
)

// Service описывает операции, доступные из командной строки.
type Service interface {
	Signup(ctx context.Context, email string, keywords []string, country string) (*models.UserRecord, error)
	Run(ctx context.Context, email string) (*models.RunResult, error)
	Upgrade(ctx context.Context, email string) (*models.UpgradeOffer, error)
	Status(ctx context.Context, email string) (*models.TrialStatus, error)
	Stats(ctx context.Context) (*models.TrialStats, error)
	Sweep(ctx context.Context) (int, error)
}

// Opener открывает сервис по пути к конфигу. Возвращённый io.Closer освобождает ресурсы.
type Opener func(ctx context.Context, configPath string, log *slog.Logger) (Service, io.Closer, error)

type commandContext struct {
	correlationID uuid.UUID
	startedAt     time.Time
}

type commandContextKey struct{}

type root struct {
	open       Opener
	log        *slog.Logger
	configPath string
}

// NewRootCmd собирает дерево команд. open вызывается один раз на команду.
func NewRootCmd(log *slog.Logger, open Opener) *cobra.Command {
	r := &root{open: open, log: log}

	cmd := &cobra.Command{
		Use:           "jobhunterctl",
		Short:         "JobHunterPro trial administration",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			info := commandContext{
				correlationID: uuid.New(),
				startedAt:     time.Now(),
			}
			cmd.SetContext(context.WithValue(cmd.Context(), commandContextKey{}, info))
			r.log.Debug("command start",
				slog.String("command", cmd.CommandPath()),
				slog.String("correlation_id", info.correlationID.String()),
			)
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			info, ok := cmd.Context().Value(commandContextKey{}).(commandContext)
			if !ok {
				return
			}
			r.log.Debug("command end",
				slog.String("command", cmd.CommandPath()),
				slog.String("correlation_id", info.correlationID.String()),
				slog.Int64("duration_ms", time.Since(info.startedAt).Milliseconds()),
			)
		},
	}
	cmd.PersistentFlags().StringVarP(&r.configPath, "config", "c", os.Getenv("CONFIG_PATH"), "config file path")

	cmd.AddCommand(
		r.signupCmd(),
		r.runCmd(),
		r.upgradeCmd(),
		r.statusCmd(),
		r.statsCmd(),
		r.sweepCmd(),
	)
	return cmd
}

// Execute запускает утилиту и возвращает код завершения.
func Execute(ctx context.Context, log *slog.Logger, open Opener, args []string) int {
	cmd := NewRootCmd(log, open)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
		return 1
	}
	return 0
}

// withService открывает сервис, выполняет fn и закрывает ресурсы.
func (r *root) withService(cmd *cobra.Command, fn func(ctx context.Context, svc Service) (any, error)) error {
	ctx := cmd.Context()
	if r.configPath == "" {
		return fmt.Errorf("config path is not set: use --config or CONFIG_PATH")
	}

	log := r.log
	if info, ok := ctx.Value(commandContextKey{}).(commandContext); ok {
		log = log.With(slog.String("correlation_id", info.correlationID.String()))
	}

	svc, closer, err := r.open(ctx, r.configPath, log)
	if err != nil {
		return fmt.Errorf("failed to open service: %w", err)
	}
	defer func() {
		if err := closer.Close(); err != nil {
			log.Error("failed to close service", slog.Any("err", err))
		}
	}()

	out, err := fn(ctx, svc)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), out)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
