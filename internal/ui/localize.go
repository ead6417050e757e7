package ui

import (
	"errors"
	"fmt"
	"strings"

	apperrors "pivotprep/internal/errors"
)

func errorTitle(err error) string {
	return fmt.Sprintf("Ошибка %s", apperrors.Classify(err))
}

// userMessage renders a failure in the operator's language. The technical
// error stays in the logs; the screen explains what to check.
func userMessage(err error) string {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return fmt.Sprintf("Внутренняя ошибка программы: \"%v\"", err)
	}

	switch appErr.Type {
	case apperrors.ErrTypeOpen:
		path, _ := appErr.Context["path"].(string)
		if path == "" {
			return "Не удалось открыть файл Excel. Указан пустой путь!"
		}
		return fmt.Sprintf("Не удалось открыть файл Excel. Правильно ли указан путь?\n%q", path)

	case apperrors.ErrTypeSheet:
		sheet, _ := appErr.Context["sheet"].(string)
		return fmt.Sprintf("Указанный лист не найден: %q", sheet)

	case apperrors.ErrTypeHeader:
		return "Невозможно найти имена колонок и заголовок файла! " +
			"Проверьте, что файл отформатирован корректно."

	case apperrors.ErrTypeFields:
		name, _ := appErr.Context["report"].(string)
		available, _ := appErr.Context["available"].([]string)
		missing, _ := appErr.Context["missing"].([]string)
		return fmt.Sprintf(
			"Во входном файле Excel не найдены необходимые колонки для формирования отчета %q!\n"+
				"Доступные колонки: %s.\n"+
				"Необходимые колонки: %s.\n\n"+
				"Убедитесь, что имена колонок во входном файле совпадают или укажите другой отчет!",
			name, quoteList(available), quoteList(missing))

	case apperrors.ErrTypeCoercion:
		field, _ := appErr.Context["field"].(string)
		cell, _ := appErr.Context["cell"].(string)
		return fmt.Sprintf(
			"Колонка %q содержит нечисловое значение %q.\n"+
				"Исправьте значение во входном файле или укажите другой отчет!",
			field, cell)

	case apperrors.ErrTypeWrite:
		path, _ := appErr.Context["path"].(string)
		return fmt.Sprintf(
			"Не удалось записать файл Excel. Возможно, введен некорректный путь "+
				"или текущий пользователь не имеет достаточно разрешений.\n%q", path)

	case apperrors.ErrTypeConfig:
		return fmt.Sprintf("Некорректная конфигурация: %s", appErr.Message)

	default:
		return fmt.Sprintf("Внутренняя ошибка программы: \"%v\"", err)
	}
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	return strings.Join(quoted, ", ")
}
