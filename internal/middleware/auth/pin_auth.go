package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/AcryCxde/shift-report/internal/auth"
	"github.com/AcryCxde/shift-report/internal/storage"
)

type EmployeeStorage interface {
	GetEmployeeByPersonnelNumber(ctx context.Context, personnelNumber string) (*storage.Employee, error)
}

type contextKey string

const employeeKey contextKey = "employee"

// PinAuth аутентифицирует сотрудника по табельному номеру и PIN-коду
// из заголовков и проверяет право на действие. Сотрудник кладётся в
// контекст запроса.
func PinAuth(log *slog.Logger, employees EmployeeStorage, cap auth.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			personnelNumber := r.Header.Get("X-Personnel-Number")
			pin := r.Header.Get("X-Pin")
			if personnelNumber == "" || pin == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			emp, err := employees.GetEmployeeByPersonnelNumber(r.Context(), personnelNumber)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					http.Error(w, "Unauthorized", http.StatusUnauthorized)
					return
				}
				log.Error("ошибка получения сотрудника",
					slog.String("personnel_number", personnelNumber),
					slog.String("error", err.Error()))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			if !emp.IsActive {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if err := bcrypt.CompareHashAndPassword([]byte(emp.PinHash), []byte(pin)); err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			role, ok := auth.ParseRole(emp.Role)
			if !ok || !auth.Allowed(role, cap) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), employeeKey, emp)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// EmployeeFromContext — сотрудник, положенный PinAuth.
func EmployeeFromContext(ctx context.Context) (*storage.Employee, bool) {
	emp, ok := ctx.Value(employeeKey).(*storage.Employee)
	return emp, ok
}
