package repository

import (
	"fmt"
	"strings"

	"github.com/stemsi/academic-backend/pkg/model"
)

var baseColumns = []string{"id", "uuid", "name", "version", "test_run_id", "created_at", "updated_at"}

// statements holds the SQL text for one entity table in one dialect.
type statements struct {
	insert          string
	update          string
	updateVersion   string
	selectByID      string
	selectByUUID    string
	selectAll       string
	deleteByID      string
	deleteVersion   string
	deleteByTestRun string
}

func extraColumns[E model.Entity[E]](kind model.Kind[E]) []string {
	if ext, ok := any(kind.New()).(model.Extension); ok {
		return ext.Columns()
	}
	return nil
}

func buildStatements[E model.Entity[E]](kind model.Kind[E], d dialect) statements {
	extra := extraColumns(kind)
	all := strings.Join(append(append([]string{}, baseColumns...), extra...), ", ")

	insertCols := append([]string{"uuid", "name", "version", "test_run_id", "created_at", "updated_at"}, extra...)
	marks := make([]string, len(insertCols))
	for i := range insertCols {
		marks[i] = d.placeholder(i + 1)
	}

	// name, test_run_id, updated_at, extras..., id[, expected version]
	sets := []string{
		"name = " + d.placeholder(1),
		"test_run_id = " + d.placeholder(2),
		"updated_at = " + d.placeholder(3),
		"version = version + 1",
	}
	for i, col := range extra {
		sets = append(sets, fmt.Sprintf("%s = %s", col, d.placeholder(4+i)))
	}
	next := 4 + len(extra)
	update := fmt.Sprintf("UPDATE %s SET %s WHERE id = %s", kind.Table, strings.Join(sets, ", "), d.placeholder(next))
	deleteByID := fmt.Sprintf("DELETE FROM %s WHERE id = %s", kind.Table, d.placeholder(1))

	return statements{
		insert: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
			kind.Table, strings.Join(insertCols, ", "), strings.Join(marks, ", ")),
		update:          update + " RETURNING version",
		updateVersion:   update + " AND version = " + d.placeholder(next+1) + " RETURNING version",
		selectByID:      fmt.Sprintf("SELECT %s FROM %s WHERE id = %s", all, kind.Table, d.placeholder(1)),
		selectByUUID:    fmt.Sprintf("SELECT %s FROM %s WHERE uuid = %s", all, kind.Table, d.placeholder(1)),
		selectAll:       fmt.Sprintf("SELECT %s FROM %s ORDER BY name, id", all, kind.Table),
		deleteByID:      deleteByID,
		deleteVersion:   deleteByID + " AND version = " + d.placeholder(2),
		deleteByTestRun: fmt.Sprintf("DELETE FROM %s WHERE test_run_id = %s", kind.Table, d.placeholder(1)),
	}
}
