package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"pivotprep/pkg/contracts"
)

var stepTitles = map[string]string{
	"validate_paths":  "Проверка путей",
	"read":            "Чтение исходного файла",
	"locate_header":   "Поиск заголовка таблицы",
	"shrink":          "Выделение таблицы",
	"fill_missing":    "Заполнение пропусков",
	"compute_fields":  "Вычисление полей",
	"prepare_reports": "Подготовка отчетов",
	"write_cleaned":   "Запись результата",
	"render_reports":  "Формирование сводных таблиц",
}

func stepTitle(step string) string {
	if title, ok := stepTitles[step]; ok {
		return title
	}
	return "Подготовка"
}

func (m Model) View() string {
	switch m.state {
	case stateFilePicker:
		return m.viewFilePicker()
	case stateOptions:
		return m.viewOptions()
	case stateProcessing:
		return m.viewProcessing()
	case stateComplete:
		return m.viewComplete()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Создание сводных отчетов"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Путь до исходного файла (.xlsx, .xlsm)"))
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("q: закрыть • " + contracts.GetVersionString()))

	return s.String()
}

func (m Model) viewOptions() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Параметры отчета"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("Файл: %s", filepath.Base(m.selectedFile))))
	s.WriteString("\n\n")

	s.WriteString(LabelStyle.Render("Лист"))
	s.WriteString("\n")
	s.WriteString(m.sheetInput.View())
	s.WriteString("\n\n")

	s.WriteString(LabelStyle.Render("Путь сохранения результата"))
	s.WriteString("\n")
	s.WriteString(m.outputInput.View())
	s.WriteString("\n\n")

	s.WriteString(LabelStyle.Render("Отчеты"))
	s.WriteString("\n")
	for i, choice := range m.reports {
		cursor := " "
		if m.cursor == firstReportRow+i {
			cursor = ">"
		}

		checked := " "
		if choice.selected {
			checked = "✓"
		}

		line := fmt.Sprintf("%s [%s] %s", cursor, checked, choice.spec.Name)
		if m.cursor == firstReportRow+i {
			line = SelectedStyle.Render(line)
		} else if choice.selected {
			line = CheckedStyle.Render(line)
		} else {
			line = UnselectedStyle.Render(line)
		}

		s.WriteString(line)
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("↑/↓/tab: переход • space: выбор отчета • enter: запуск • esc: назад • ctrl+c: закрыть"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewProcessing() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Формирование отчета..."))
	s.WriteString("\n\n")
	s.WriteString(stepTitle(m.currentStep))
	s.WriteString("\n\n")
	s.WriteString(m.progress.View())

	return BoxStyle.Render(s.String())
}

func (m Model) viewComplete() string {
	var s strings.Builder

	s.WriteString(SuccessStyle.Render("Отчет сформирован успешно!"))
	s.WriteString("\n\n")

	maxPathLen := m.width - 20
	if maxPathLen < 30 {
		maxPathLen = 30
	}

	s.WriteString(fmt.Sprintf("Исходный файл: %s\n", truncatePath(m.result.InputPath, maxPathLen)))
	s.WriteString(SuccessStyle.Render(fmt.Sprintf("Результат:     %s\n", truncatePath(m.result.OutputPath, maxPathLen))))
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("Строк обработано: %d\n", m.result.Rows))
	if len(m.result.Reports) > 0 {
		s.WriteString(fmt.Sprintf("Отчеты: %s\n", strings.Join(m.result.Reports, ", ")))
	}
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("enter/esc: закрыть"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render(errorTitle(m.err)))
	s.WriteString("\n\n")
	s.WriteString(userMessage(m.err))
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("enter/esc: закрыть"))

	return BoxStyle.Render(s.String())
}

func truncatePath(path string, max int) string {
	runes := []rune(path)
	if len(runes) <= max {
		return path
	}
	return "..." + string(runes[len(runes)-max+3:])
}
