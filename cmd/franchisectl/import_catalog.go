package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"franchiseops/models"
)

// Catalog CSV headers, matched case-insensitively.
const (
	columnCategory        = "category"
	columnNameEN          = "name (en)"
	columnNameLocal       = "name (local)"
	columnPackageQuantity = "package quantity"
	columnUnit            = "unit"
	columnYieldRate       = "yield rate"
)

var (
	numberPattern   = regexp.MustCompile(`[-+]?\d*\.?\d+`)
	cleanWhitespace = regexp.MustCompile(`\s+`)
)

type importSummary struct {
	Created int
	Updated int
	Skipped int
}

func newImportCatalogCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import-catalog <csv>",
		Short: "Create or update master ingredients from a catalog CSV",
		Long: `Reads a catalog CSV with the columns
  Category, Name (EN), Name (Local), Package Quantity, Unit, Yield Rate
and upserts each row into the tenant's master ingredients. Rows are matched
on the English name first, then the local name. Rows without any name are
skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := readCSV(args[0])
			if err != nil {
				return fmt.Errorf("read csv: %w", err)
			}
			s, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}

			summary := importSummary{}
			for idx, record := range records {
				ingredient, ok := buildMasterIngredient(record)
				if !ok {
					summary.Skipped++
					continue
				}
				ingredient.TenantID = s.tenantID
				created, err := s.store.UpsertMasterIngredient(cmd.Context(), &ingredient)
				if err != nil {
					return fmt.Errorf("row %d (%s): %w", idx+2, ingredient.DisplayName(), err)
				}
				if created {
					summary.Created++
				} else {
					summary.Updated++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d rows: %d created, %d updated, %d skipped\n",
				len(records), summary.Created, summary.Updated, summary.Skipped)
			return nil
		},
	}
}

func readCSV(path string) ([]map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, errors.New("csv is empty")
	}

	header := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}

		record := make(map[string]string, len(header))
		for idx, key := range header {
			if idx >= len(row) {
				continue
			}
			record[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(key, "\ufeff")))] = strings.TrimSpace(row[idx])
		}
		records = append(records, record)
	}

	return records, nil
}

func buildMasterIngredient(row map[string]string) (models.MasterIngredient, bool) {
	ingredient := models.MasterIngredient{
		Category:        normalizeText(row[columnCategory]),
		NameEN:          normalizeText(row[columnNameEN]),
		NameLocal:       normalizeText(row[columnNameLocal]),
		PackageQuantity: parseFirstNumber(row[columnPackageQuantity]),
		Unit:            strings.ToLower(normalizeText(row[columnUnit])),
		YieldRate:       parseFirstNumber(row[columnYieldRate]),
	}
	if ingredient.NameEN == "" && ingredient.NameLocal == "" {
		return ingredient, false
	}
	if ingredient.Unit == "" {
		ingredient.Unit = "g"
	}
	if ingredient.YieldRate <= 0 || ingredient.YieldRate > 100 {
		ingredient.YieldRate = models.DefaultYieldRate
	}
	if ingredient.PackageQuantity < 0 {
		ingredient.PackageQuantity = 0
	}
	return ingredient, true
}

func normalizeText(value string) string {
	return strings.TrimSpace(cleanWhitespace.ReplaceAllString(value, " "))
}

// parseFirstNumber reads the first number in value, ignoring thousands
// separators, so "16,000 ml" and "99%" parse as 16000 and 99.
func parseFirstNumber(value string) float64 {
	match := numberPattern.FindString(strings.ReplaceAll(value, ",", ""))
	if match == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return parsed
}
