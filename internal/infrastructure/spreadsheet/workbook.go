// Package spreadsheet reads loan applications from, and writes decisions
// back to, .xlsx workbooks laid out like the training data.
package spreadsheet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/bibbank/loan-decision/internal/application/dto"
	"github.com/bibbank/loan-decision/internal/domain/model"
)

// ErrMissingColumn is returned when the header row lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// Columns appended by WriteDecisions.
const (
	ColumnOutcome    = "Decision"
	ColumnReason     = "Decision_Reason"
	ColumnConfidence = "Decision_Confidence"
	ColumnDetail     = "Decision_Detail"
)

var requiredColumns = []string{
	model.ColumnGender,
	model.ColumnMarried,
	model.ColumnDependents,
	model.ColumnEducation,
	model.ColumnSelfEmployed,
	model.ColumnApplicantIncome,
	model.ColumnCoapplicantIncome,
	model.ColumnLoanAmount,
	model.ColumnLoanAmountTerm,
	model.ColumnPropertyArea,
}

// Workbook is an opened application sheet.
type Workbook struct {
	f      *excelize.File
	sheet  string
	header map[string]int
	width  int
	rows   [][]string
}

// Open reads sheet from the workbook at path. An empty sheet selects the
// first one.
func Open(path, sheet string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	wb, err := fromFile(f, sheet)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return wb, nil
}

func fromFile(f *excelize.File, sheet string) (*Workbook, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row", sheet)
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[strings.TrimSpace(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := header[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	return &Workbook{f: f, sheet: sheet, header: header, width: len(rows[0]), rows: rows[1:]}, nil
}

// Len returns the number of data rows.
func (w *Workbook) Len() int { return len(w.rows) }

// Requests converts every data row into a request. Rows whose amounts do
// not parse get a zero request and an entry in rowErrs keyed by row index.
func (w *Workbook) Requests() (reqs []dto.EvaluateApplicationRequest, rowErrs map[int]error) {
	reqs = make([]dto.EvaluateApplicationRequest, len(w.rows))
	rowErrs = make(map[int]error)
	for i, row := range w.rows {
		req, err := w.request(row)
		if err != nil {
			rowErrs[i] = err
			continue
		}
		reqs[i] = req
	}
	return reqs, rowErrs
}

func (w *Workbook) cell(row []string, col string) string {
	i, ok := w.header[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (w *Workbook) request(row []string) (dto.EvaluateApplicationRequest, error) {
	req := dto.EvaluateApplicationRequest{
		Gender:        w.cell(row, model.ColumnGender),
		Married:       w.cell(row, model.ColumnMarried),
		Dependents:    w.cell(row, model.ColumnDependents),
		Education:     w.cell(row, model.ColumnEducation),
		SelfEmployed:  w.cell(row, model.ColumnSelfEmployed),
		LoanTerm:      w.cell(row, model.ColumnLoanAmountTerm),
		PropertyArea:  w.cell(row, model.ColumnPropertyArea),
		CreditHistory: w.cell(row, model.ColumnCreditHistory),
	}
	amounts := []struct {
		col string
		dst *decimal.Decimal
	}{
		{model.ColumnApplicantIncome, &req.ApplicantIncome},
		{model.ColumnCoapplicantIncome, &req.CoapplicantIncome},
		{model.ColumnLoanAmount, &req.LoanAmount},
	}
	for _, a := range amounts {
		raw := w.cell(row, a.col)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return dto.EvaluateApplicationRequest{}, fmt.Errorf("%w: %s %q is not a number", model.ErrInvalidApplicant, a.col, raw)
		}
		*a.dst = d
	}
	return req, nil
}

// WriteDecisions appends the decision columns to the sheet and saves the
// workbook to path. items are matched to data rows by Index.
func (w *Workbook) WriteDecisions(items []dto.BatchItem, path string) error {
	first := w.width
	for j, name := range []string{ColumnOutcome, ColumnReason, ColumnConfidence, ColumnDetail} {
		if err := w.set(first+j, 1, name); err != nil {
			return err
		}
	}

	for _, item := range items {
		values := decisionValues(item)
		for j, v := range values {
			if err := w.set(first+j, item.Index+2, v); err != nil {
				return err
			}
		}
	}

	if err := w.f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func (w *Workbook) set(col, row int, v string) error {
	cell, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return err
	}
	return w.f.SetCellValue(w.sheet, cell, v)
}

func decisionValues(item dto.BatchItem) []string {
	if item.Err != nil || item.Response == nil {
		msg := "no response"
		if item.Err != nil {
			msg = item.Err.Error()
		}
		return []string{"INVALID", "", "", msg}
	}
	r := item.Response
	confidence := ""
	if r.Confidence != nil {
		confidence = strconv.FormatFloat(*r.Confidence, 'f', 4, 64)
	}
	return []string{r.Outcome, r.Reason, confidence, r.Detail}
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.f.Close()
}
