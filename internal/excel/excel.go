// Package excel renders the printable judging schedule workbook.
package excel

import (
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/awalker/judgeslot/internal/schedule"
	"github.com/awalker/judgeslot/internal/state"
)

const timeFormat = "3:04 PM"

// Generate creates a workbook with the master judging schedule and, when a
// no-show recovery schedule exists, a recovery sheet.
func Generate(st *state.State) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetDefaultFont("Arial")

	if err := writeMasterSheet(f, st); err != nil {
		return nil, fmt.Errorf("writing master sheet: %w", err)
	}

	for i := range st.Schedules {
		if st.Schedules[i].Type == state.TypeNoShow {
			if err := writeRecoverySheet(f, st.Schedules[i].Slots); err != nil {
				return nil, fmt.Errorf("writing recovery sheet: %w", err)
			}
			break
		}
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

func writeMasterSheet(f *excelize.File, st *state.State) error {
	sheet := "Judging Schedule"
	f.NewSheet(sheet)

	judgePairs := st.Config.JudgePairs
	headers := []string{"Time"}
	for judgeID := 1; judgeID <= judgePairs; judgeID++ {
		headers = append(headers, fmt.Sprintf("Judge Pair %d", judgeID))
	}
	for i, h := range headers {
		f.SetCellValue(sheet, cellRef(i+1, 1), h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 14, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if headerStyle != 0 {
		for i := range headers {
			f.SetCellStyle(sheet, cellRef(i+1, 1), cellRef(i+1, 1), headerStyle)
		}
	}

	statusStyles := map[schedule.Status]int{}
	for status, color := range map[schedule.Status]string{
		schedule.StatusChecked:     "#C6EFCE",
		schedule.StatusNoShow:      "#FFC7CE",
		schedule.StatusRescheduled: "#FFEB9C",
	} {
		style, _ := f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Size: 14, Family: "Arial"},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		statusStyles[status] = style
	}

	// Distinct slot start times, ascending, one row each.
	seen := make(map[time.Time]bool)
	var starts []time.Time
	for _, s := range st.Slots {
		if !seen[s.Start] {
			seen[s.Start] = true
			starts = append(starts, s.Start)
		}
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	type cellKey struct {
		start time.Time
		judge int
	}
	slotAt := make(map[cellKey]schedule.Slot)
	for _, s := range st.Slots {
		slotAt[cellKey{s.Start, s.JudgeID}] = s
	}

	for rowIdx, start := range starts {
		row := rowIdx + 2
		f.SetCellValue(sheet, cellRef(1, row), start.Format(timeFormat))
		for judgeID := 1; judgeID <= judgePairs; judgeID++ {
			s, ok := slotAt[cellKey{start, judgeID}]
			if !ok || s.Team == "" {
				continue
			}
			ref := cellRef(judgeID+1, row)
			f.SetCellValue(sheet, ref, s.Team)
			if style, ok := statusStyles[s.Status]; ok && style != 0 {
				f.SetCellStyle(sheet, ref, ref, style)
			}
		}
	}

	f.SetColWidth(sheet, "A", columnName(judgePairs+1), 16)
	return nil
}

func writeRecoverySheet(f *excelize.File, slots []schedule.Slot) error {
	sheet := "No-Show Recovery"
	f.NewSheet(sheet)

	headers := []string{"Team", "Judge Pair", "Start", "End", "Between Matches"}
	for i, h := range headers {
		f.SetCellValue(sheet, cellRef(i+1, 1), h)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14, Family: "Arial"},
	})
	if headerStyle != 0 {
		for i := range headers {
			f.SetCellStyle(sheet, cellRef(i+1, 1), cellRef(i+1, 1), headerStyle)
		}
	}

	ordered := make([]schedule.Slot, len(slots))
	copy(ordered, slots)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Start.Before(ordered[j].Start) })

	for i, s := range ordered {
		row := i + 2
		f.SetCellValue(sheet, cellRef(1, row), s.Team)
		f.SetCellValue(sheet, cellRef(2, row), s.JudgeID)
		f.SetCellValue(sheet, cellRef(3, row), s.Start.Format(timeFormat))
		f.SetCellValue(sheet, cellRef(4, row), s.End.Format(timeFormat))
		f.SetCellValue(sheet, cellRef(5, row), s.Between)
	}

	f.SetColWidth(sheet, "A", "E", 20)
	return nil
}

func cellRef(col, row int) string {
	ref, _ := excelize.CoordinatesToCellName(col, row)
	return ref
}

func columnName(col int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return name
}
