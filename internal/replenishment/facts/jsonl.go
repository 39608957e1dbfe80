// Package facts reads the raw order and stock fact files for a business
// date. Facts arrive as JSONL files under date-partitioned directories,
// mirroring the upstream distributed-filesystem layout:
//
//	<data_dir>/raw/orders/<date>/*.jsonl
//	<data_dir>/raw/stock/<date>/*.jsonl
package facts

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Ridadata/procurement-pipeline/internal/replenishment/domain"
	"github.com/Ridadata/procurement-pipeline/pkg/errors"
	"github.com/Ridadata/procurement-pipeline/pkg/logger"
)

// Store reads raw facts from the date-partitioned directory layout.
type Store struct {
	dataDir string
	log     *logger.Logger
}

// NewStore creates a fact store rooted at dataDir
func NewStore(dataDir string, log *logger.Logger) *Store {
	return &Store{
		dataDir: dataDir,
		log:     log.WithComponent("facts"),
	}
}

// Orders reads all order facts for the business date. A date directory with
// no files or no records is missing upstream data, not an empty day.
func (s *Store) Orders(businessDate string) ([]domain.OrderFact, error) {
	dir := filepath.Join(s.dataDir, "raw", "orders", businessDate)

	var orders []domain.OrderFact
	err := readJSONLDir(dir, func(line []byte) error {
		var fact domain.OrderFact
		if err := json.Unmarshal(line, &fact); err != nil {
			return fmt.Errorf("malformed order fact: %w", err)
		}
		orders = append(orders, fact)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return nil, errors.MissingData("order", businessDate)
	}

	s.log.Debug().
		Str("business_date", businessDate).
		Int("records", len(orders)).
		Msg("order facts loaded")
	return orders, nil
}

// Stock reads all stock snapshot facts for the business date.
func (s *Store) Stock(businessDate string) ([]domain.StockFact, error) {
	dir := filepath.Join(s.dataDir, "raw", "stock", businessDate)

	var stock []domain.StockFact
	err := readJSONLDir(dir, func(line []byte) error {
		var fact domain.StockFact
		if err := json.Unmarshal(line, &fact); err != nil {
			return fmt.Errorf("malformed stock fact: %w", err)
		}
		stock = append(stock, fact)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(stock) == 0 {
		return nil, errors.MissingData("stock", businessDate)
	}

	s.log.Debug().
		Str("business_date", businessDate).
		Int("records", len(stock)).
		Msg("stock facts loaded")
	return stock, nil
}

// readJSONLDir feeds every non-empty line of every .jsonl/.json file under
// dir to fn. Files are visited in name order so rereads are deterministic.
func readJSONLDir(dir string, fn func(line []byte) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			// Treated as zero records by the callers
			return nil
		}
		return fmt.Errorf("failed to read fact directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".jsonl" && ext != ".json" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		if err := readJSONLFile(filepath.Join(dir, name), fn); err != nil {
			return err
		}
	}
	return nil
}

func readJSONLFile(path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open fact file %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := fn([]byte(line)); err != nil {
			return fmt.Errorf("%s line %d: %w", path, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to scan fact file %s: %w", path, err)
	}
	return nil
}
