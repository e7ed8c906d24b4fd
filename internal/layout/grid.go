package layout

import (
	"time"

	"glasscal/internal/model"
)

// GridCells is the fixed size of a month grid: 6 weeks of 7 days.
// The grid always tiles exactly 6 weeks so the view keeps a constant
// shape; months whose trailing days would need a 7th row have those
// days outside the grid. This is deliberate display behavior, not an
// error.
const GridCells = 6 * 7

// MonthGrid produces the 42 cells of the month view for the month
// containing anchor, using weekStart as the first column. The grid
// begins at the week start on or before the 1st of the month and runs
// 41 days further; InMonth marks cells belonging to the anchor month.
func MonthGrid(anchor time.Time, weekStart time.Weekday) [GridCells]model.MonthCell {
	var cells [GridCells]model.MonthCell

	firstOfMonth := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	gridStart := StartOfWeek(firstOfMonth, weekStart)

	for i := range cells {
		date := gridStart.AddDate(0, 0, i)
		cells[i] = model.MonthCell{
			Date:    date,
			InMonth: date.Month() == anchor.Month() && date.Year() == anchor.Year(),
		}
	}
	return cells
}
