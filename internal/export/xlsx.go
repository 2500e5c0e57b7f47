// Package export renders saved businesses as spreadsheets.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kailas-cloud/localmaps/internal/domain/favorite"
)

// SheetName is the worksheet holding the favorites table.
const SheetName = "Favorites"

// ContentType is the MIME type of the produced workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var headers = []any{"Name", "Address", "Rating", "Place ID", "Maps URL", "Saved At"}

// MapsURL links to the place on Google Maps.
func MapsURL(placeID string) string {
	return "https://www.google.com/maps/place/?q=place_id:" + placeID
}

// WriteFavorites streams favs into a single-sheet XLSX workbook written to w.
// Rows keep the order of favs.
func WriteFavorites(w io.Writer, favs []favorite.Favorite) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}
	if err := sw.SetColWidth(1, 2, 40); err != nil {
		return fmt.Errorf("col width: %w", err)
	}
	if err := sw.SetRow("A1", headers); err != nil {
		return fmt.Errorf("header row: %w", err)
	}

	for i, fav := range favs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		var rating any = ""
		if fav.Rating != nil {
			rating = *fav.Rating
		}
		row := []any{
			fav.Name,
			fav.Address,
			rating,
			fav.PlaceID,
			MapsURL(fav.PlaceID),
			fav.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
