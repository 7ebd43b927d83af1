// Package email содержит нормализацию адресов электронной почты.
// Нормализация выполняется один раз на границе сервиса, до обращения
// к хранилищу или движку, чтобы адреса в разном регистре указывали на одну запись.
package email

import "strings"

// Normalize обрезает пробельные символы по краям и приводит адрес к нижнему регистру.
// Функция идемпотентна: Normalize(Normalize(x)) == Normalize(x).
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
