package excel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/bf2799/pppl-league-app/internal/schedule"
	"github.com/bf2799/pppl-league-app/internal/strategy"
)

const (
	MasterSheet  = "Master Schedule"
	SummarySheet = "Summary"

	maxSheetName = 31
)

// Generate creates an Excel workbook with the master schedule, a summary,
// and per-player sheets.
func Generate(players []string, games []strategy.Game) (*excelize.File, error) {
	f := excelize.NewFile()

	// Set default font for the workbook
	f.SetDefaultFont("Arial")

	// Reuse the default sheet so no player sheet can collide with it.
	if err := f.SetSheetName("Sheet1", MasterSheet); err != nil {
		return nil, fmt.Errorf("naming master sheet: %w", err)
	}

	if err := writeMasterSheet(f, games); err != nil {
		return nil, fmt.Errorf("writing master sheet: %w", err)
	}

	games = strategy.MatchRoster(players, games)
	if err := writeSummarySheet(f, players, games); err != nil {
		return nil, fmt.Errorf("writing summary sheet: %w", err)
	}

	if err := writePlayerSheets(f, players, games); err != nil {
		return nil, fmt.Errorf("writing player sheets: %w", err)
	}

	return f, nil
}

// ReadGames reads the games listed on the master sheet, in row order.
func ReadGames(f *excelize.File) ([]strategy.Game, error) {
	rows, err := f.GetRows(MasterSheet)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", MasterSheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s is empty", MasterSheet)
	}

	var games []strategy.Game
	for i, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("row %d: expected game number, home and away", i+2)
		}
		num, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid game number %q", i+2, row[0])
		}
		games = append(games, strategy.Game{
			Number: num,
			Home:   strings.TrimSpace(row[1]),
			Away:   strings.TrimSpace(row[2]),
			Label:  fmt.Sprintf("Game %d", num),
		})
	}
	return games, nil
}

// UpdatePlayerSheets rebuilds the summary and per-player sheets of the
// workbook at path from its master sheet, so manual edits to the master
// schedule carry through.
func UpdatePlayerSheets(path string, players []string) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	games, err := ReadGames(f)
	if err != nil {
		return err
	}
	games = strategy.MatchRoster(players, games)

	for _, name := range f.GetSheetList() {
		if name != MasterSheet {
			if err := f.DeleteSheet(name); err != nil {
				return fmt.Errorf("removing sheet %q: %w", name, err)
			}
		}
	}

	if err := writeSummarySheet(f, players, games); err != nil {
		return fmt.Errorf("writing summary sheet: %w", err)
	}
	if err := writePlayerSheets(f, players, games); err != nil {
		return fmt.Errorf("writing player sheets: %w", err)
	}
	return f.Save()
}

func headerStyle(f *excelize.File) int {
	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 16, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	return style
}

func writeHeaders(f *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		f.SetCellValue(sheet, cellRef(i+1, 1), h)
	}
	if style := headerStyle(f); style != 0 {
		f.SetCellStyle(sheet, cellRef(1, 1), cellRef(len(headers), 1), style)
	}
}

func writeMasterSheet(f *excelize.File, games []strategy.Game) error {
	sheet := MasterSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Game", "Home", "Away", "Matchup"}
	writeHeaders(f, sheet, headers)

	cellStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 16, Family: "Arial"},
	})
	matchupStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 16, Family: "Arial"},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for i, g := range games {
		row := i + 2
		f.SetCellValue(sheet, cellRef(1, row), g.Number)
		f.SetCellValue(sheet, cellRef(2, row), g.Home)
		f.SetCellValue(sheet, cellRef(3, row), g.Away)
		f.SetCellValue(sheet, cellRef(4, row), fmt.Sprintf("%s @ %s", g.Away, g.Home))

		if cellStyle != 0 {
			f.SetCellStyle(sheet, cellRef(1, row), cellRef(3, row), cellStyle)
		}
		if matchupStyle != 0 {
			f.SetCellStyle(sheet, cellRef(4, row), cellRef(4, row), matchupStyle)
		}
	}

	// Set column widths (sized for Arial 16)
	f.SetColWidth(sheet, "A", "A", 10)
	f.SetColWidth(sheet, "B", "C", 20)
	f.SetColWidth(sheet, "D", "D", 36)
	return nil
}

func writeSummarySheet(f *excelize.File, players []string, games []strategy.Game) error {
	sheet := SummarySheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Player", "Games", "Home", "Away"}
	writeHeaders(f, sheet, headers)

	tallies := schedule.Tally(players, strategy.Pairings(games))
	for i, p := range players {
		row := i + 2
		t := tallies[p]
		f.SetCellValue(sheet, cellRef(1, row), p)
		f.SetCellValue(sheet, cellRef(2, row), t.Games)
		f.SetCellValue(sheet, cellRef(3, row), t.Home)
		f.SetCellValue(sheet, cellRef(4, row), t.Away)
	}

	f.SetColWidth(sheet, "A", "A", 20)
	f.SetColWidth(sheet, "B", "D", 10)
	return nil
}

func writePlayerSheets(f *excelize.File, players []string, games []strategy.Game) error {
	sheets := SheetNames(players)
	for i, player := range players {
		sheet := sheets[i]
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("sheet for %s: %w", player, err)
		}

		headers := []string{"Game", "Opponent", "Home/Away"}
		writeHeaders(f, sheet, headers)

		cellStyle, _ := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Size: 16, Family: "Arial"},
		})

		row := 2
		for _, g := range games {
			var opponent, side string
			switch player {
			case g.Home:
				opponent, side = g.Away, "Home"
			case g.Away:
				opponent, side = g.Home, "Away"
			default:
				continue
			}
			f.SetCellValue(sheet, cellRef(1, row), g.Number)
			f.SetCellValue(sheet, cellRef(2, row), opponent)
			f.SetCellValue(sheet, cellRef(3, row), side)
			if cellStyle != 0 {
				f.SetCellStyle(sheet, cellRef(1, row), cellRef(len(headers), row), cellStyle)
			}
			row++
		}

		f.SetColWidth(sheet, "A", "A", 10)
		f.SetColWidth(sheet, "B", "B", 20)
		f.SetColWidth(sheet, "C", "C", 14)
	}

	return nil
}

// SheetName returns a sheet name for player. Excel limits names to 31
// characters and forbids a few punctuation marks.
func SheetName(player string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return '_'
		}
		return r
	}, player)
	return truncate(name, maxSheetName)
}

// SheetNames returns a distinct sheet name for each player, in roster order.
// Excel compares sheet names without case, so clashes with each other or
// with the fixed sheets get a numbered suffix.
func SheetNames(players []string) []string {
	taken := map[string]bool{
		strings.ToLower(MasterSheet):  true,
		strings.ToLower(SummarySheet): true,
	}
	names := make([]string, len(players))
	for i, p := range players {
		base := SheetName(p)
		name := base
		for n := 2; taken[strings.ToLower(name)]; n++ {
			suffix := fmt.Sprintf(" (%d)", n)
			name = truncate(base, maxSheetName-len(suffix)) + suffix
		}
		taken[strings.ToLower(name)] = true
		names[i] = name
	}
	return names
}

func truncate(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n])
	}
	return s
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", colLetter(col), row)
}

func colLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
