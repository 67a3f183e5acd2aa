package parser

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/strrl/agentsim/internal/db"
)

type Parser struct {
	db *sql.DB
}

func NewParser() (*Parser, error) {
	database, err := db.GetDB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database: %w", err)
	}

	return &Parser{db: database}, nil
}

// FetchPrompts reads the given column of every row in a JSONL, JSON or CSV
// prompt script, in file order.
func (p *Parser) FetchPrompts(path, column string) ([]Prompt, error) {
	source, err := sourceFor(path)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT
			row_number() OVER () AS line,
			%s AS value
		FROM %s
	`, quoteIdent(column), source)

	rows, err := p.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query prompts: %w", err)
	}
	defer rows.Close()

	var prompts []Prompt
	for rows.Next() {
		var (
			line  int64
			value any
		)
		if err := rows.Scan(&line, &value); err != nil {
			return nil, fmt.Errorf("failed to scan prompt: %w", err)
		}
		prompts = append(prompts, Prompt{Line: int(line), Value: value})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return prompts, nil
}

func (p *Parser) CountPrompts(path string) (int, error) {
	source, err := sourceFor(path)
	if err != nil {
		return 0, err
	}

	var count int
	if err := p.db.QueryRow("SELECT COUNT(*) FROM " + source).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count prompts: %w", err)
	}
	return count, nil
}

func sourceFor(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("prompt file does not exist: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("prompt file is a directory: %s", absPath)
	}

	format, ok := DetectFormat(absPath)
	if !ok {
		return "", fmt.Errorf("unsupported prompt file format: %s", filepath.Ext(absPath))
	}

	lit := quoteLiteral(absPath)
	switch format {
	case FormatJSONL:
		return fmt.Sprintf(`read_json(%s,
			format = 'newline_delimited',
			union_by_name = true,
			ignore_errors = true
		)`, lit), nil
	case FormatJSON:
		return fmt.Sprintf("read_json_auto(%s)", lit), nil
	default:
		return fmt.Sprintf("read_csv_auto(%s, header = true)", lit), nil
	}
}
