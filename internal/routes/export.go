package routes

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"Hishab/internal/domain/ledger"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{"ID", "Partner", "Amount", "Type", "Category", "Context", "Currency", "Date", "Related To"}

func (h *Handler) ExportTransactionsCSV(c *gin.Context) {
	transactions, ok := h.transactionsForExport(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for _, entity := range transactions {
		writer.Write(exportRow(entity))
	}
}

func (h *Handler) ExportTransactionsXLSX(c *gin.Context) {
	transactions, ok := h.transactionsForExport(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	sheetName := "Transactions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		h.respondError(c, err)
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for idx, entity := range transactions {
		row := idx + 2
		for col, value := range exportRow(entity) {
			cell := fmt.Sprintf("%c%d", 'A'+col, row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	f.SetColWidth(sheetName, "A", "B", 28)
	f.SetColWidth(sheetName, "C", "C", 12)
	f.SetColWidth(sheetName, "D", "E", 15)
	f.SetColWidth(sheetName, "F", "F", 40)
	f.SetColWidth(sheetName, "G", "I", 15)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		h.respondError(c, err)
	}
}

func (h *Handler) transactionsForExport(c *gin.Context) ([]*ledger.Transaction, bool) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return nil, false
	}

	filters, err := h.parseTransactionFilters(c)
	if err != nil {
		h.respondError(c, err)
		return nil, false
	}

	transactions, err := h.LedgerService.ListAll(c.Request.Context(), userID, filters)
	if err != nil {
		h.respondError(c, err)
		return nil, false
	}

	return transactions, true
}

func exportRow(entity *ledger.Transaction) []string {
	relatedTo := ""
	if entity.RelatedTo != nil {
		relatedTo = entity.RelatedTo.String()
	}
	return []string{
		entity.Id.String(),
		entity.PartnerId.String(),
		strconv.FormatFloat(entity.Amount, 'f', 2, 64),
		string(entity.Type),
		entity.Category,
		entity.Context,
		entity.Currency,
		entity.TransactionDate.Format("2006-01-02"),
		relatedTo,
	}
}
