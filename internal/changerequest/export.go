package changerequest

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/frahmantamala/sakti/internal"
)

const exportSheet = "Change Requests"

var exportHeader = []interface{}{"CR ID", "Title", "Dinas", "Catalog", "Sub Catalog", "BMD ID", "Status", "Type", "Risk Score", "Requested By", "Created At"}

// Export writes the filtered list as an xlsx workbook.
func (s *Service) Export(ctx context.Context, q ListQuery, w io.Writer) error {
	items, err := s.List(ctx, q)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return internal.NewInternalError("failed to prepare workbook", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return internal.NewInternalError("failed to write header", err)
	}

	for i, c := range items {
		var risk interface{} = ""
		if c.RiskScore != nil {
			risk = *c.RiskScore
		}
		row := []interface{}{
			c.ID, c.Title, c.Dinas, c.Catalog, c.SubCatalog, c.BMDID,
			string(c.Status), string(c.Type), risk, c.RequestedBy,
			c.CreatedAt.Format("2006-01-02 15:04"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return internal.NewInternalError("failed to address row", err)
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return internal.NewInternalError(fmt.Sprintf("failed to write row %s", c.ID), err)
		}
	}

	if err := f.Write(w); err != nil {
		return internal.NewInternalError("failed to write workbook", err)
	}
	return nil
}
