package services

import (
	"fmt"
	"log"
	"reflect"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"bookstore/internal/models"
)

// ─── Service Interface ────────────────────────────────────────────────────────

// ExportService produces tabular XLSX dumps of a model's records. Admin only:
// any other caller, authenticated or not, is rejected with ErrForbidden.
type ExportService interface {
	Export(actor *models.User, modelName string, fields []string) ([]byte, string, error)
}

// ─── Implementation ───────────────────────────────────────────────────────────

type exportService struct {
	db *gorm.DB
}

// NewExportService wires up all dependencies and returns an ExportService.
func NewExportService(db *gorm.DB) ExportService {
	return &exportService{db: db}
}

// exportFetchers maps exportable model names to record loaders.
var exportFetchers = map[string]func(db *gorm.DB) (interface{}, error){
	"user": func(db *gorm.DB) (interface{}, error) {
		var rows []models.User
		return rows, db.Order("created_at").Find(&rows).Error
	},
	"author": func(db *gorm.DB) (interface{}, error) {
		var rows []models.Author
		return rows, db.Order("created_at").Find(&rows).Error
	},
	"book": func(db *gorm.DB) (interface{}, error) {
		var rows []models.Book
		return rows, db.Order("created_at").Find(&rows).Error
	},
	"order": func(db *gorm.DB) (interface{}, error) {
		var rows []models.Order
		return rows, db.Order("created_at").Find(&rows).Error
	},
	"orderitem": func(db *gorm.DB) (interface{}, error) {
		var rows []models.OrderItem
		return rows, db.Order("created_at").Find(&rows).Error
	},
	"review": func(db *gorm.DB) (interface{}, error) {
		var rows []models.Review
		return rows, db.Order("created_at").Find(&rows).Error
	},
}

// Export builds an XLSX workbook with one sheet named after the model: a header
// row of the requested field names followed by one row per record. Fields that do
// not exist on the model render as empty cells; fields excluded from JSON (such as
// password hashes) are never exported.
func (s *exportService) Export(actor *models.User, modelName string, fields []string) ([]byte, string, error) {
	if !IsAdmin(actor) {
		return nil, "", ErrForbidden
	}

	modelName = strings.ToLower(strings.TrimSpace(modelName))
	fetch, ok := exportFetchers[modelName]
	if !ok {
		return nil, "", &ValidationError{Field: "model", Message: "must be one of user, author, book, order, orderitem, review"}
	}
	if len(fields) == 0 {
		return nil, "", &ValidationError{Field: "fields", Message: "at least one field is required"}
	}

	records, err := fetch(s.db)
	if err != nil {
		log.Printf("[ERROR] Export: failed to load %s records: %v", modelName, err)
		return nil, "", err
	}

	wb := excelize.NewFile()
	defer wb.Close()
	sheet := wb.GetSheetName(wb.GetActiveSheetIndex())
	if err := wb.SetSheetName(sheet, modelName); err != nil {
		return nil, "", err
	}
	sheet = modelName

	for col, field := range fields {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := wb.SetCellValue(sheet, cell, field); err != nil {
			return nil, "", err
		}
	}

	rows := reflect.ValueOf(records)
	for i := 0; i < rows.Len(); i++ {
		for col, field := range fields {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := wb.SetCellValue(sheet, cell, exportCell(rows.Index(i), field)); err != nil {
				return nil, "", err
			}
		}
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	log.Printf("[INFO] Export: admin %s exported %d %s record(s), fields=%v", actor.ID, rows.Len(), modelName, fields)
	return buf.Bytes(), modelName + ".xlsx", nil
}

// exportCell renders the named field of a record as a cell string. Field names
// follow the JSON wire names of the model; unknown names and non-scalar fields
// such as preloaded relations yield "".
func exportCell(record reflect.Value, field string) string {
	t := record.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		name := strings.Split(tag, ",")[0]
		if name == "" || name == "-" || name != field {
			continue
		}
		return formatCell(record.Field(i).Interface())
	}
	return ""
}

func formatCell(v interface{}) string {
	switch val := v.(type) {
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	case fmt.Stringer:
		return val.String()
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Struct:
		return ""
	}
	return fmt.Sprintf("%v", v)
}
