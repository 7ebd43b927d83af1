// Package storage описывает контракт хранилища записей пользователей и ошибки,
// общие для всех его реализаций (PostgreSQL, JSON-файл).
//
// Реализации обязаны отличать отсутствие записи (ErrNotFound) от недоступности
// хранилища (ErrUnavailable): первое сообщается клиенту как есть, второе
// логируется подробно и отдаётся наружу как общая ошибка.
package storage

import (
	"context"
	"errors"

	"github.com/magabrotheeeer/jobhunter/internal/models"
)

var (
	// ErrNotFound: записи с таким email нет.
	ErrNotFound = errors.New("user record not found")
	// ErrAlreadyExists: запись с таким email уже есть.
	ErrAlreadyExists = errors.New("user record already exists")
	// ErrUnavailable: хранилище недоступно (диск, сеть, база данных).
	ErrUnavailable = errors.New("storage unavailable")
	// ErrMalformedRecord: сохранённая запись не читается (например, битая дата).
	ErrMalformedRecord = errors.New("malformed stored record")
)

// Store хранит записи пользователей по нормализованному email.
type Store interface {
	// Upsert вставляет запись или целиком заменяет существующую.
	Upsert(ctx context.Context, rec models.UserRecord) error
	// Insert вставляет запись, только если её ещё нет, иначе ErrAlreadyExists.
	Insert(ctx context.Context, rec models.UserRecord) error
	// Get возвращает запись по email или ErrNotFound.
	Get(ctx context.Context, email string) (*models.UserRecord, error)
	// Resave атомарно перечитывает текущую запись и сохраняет её без изменений,
	// иначе ErrNotFound.
	Resave(ctx context.Context, email string) error
	// ListAll возвращает все записи.
	ListAll(ctx context.Context) ([]*models.UserRecord, error)
	// Ping проверяет доступность хранилища.
	Ping(ctx context.Context) error
	// Close освобождает ресурсы.
	Close() error
}
