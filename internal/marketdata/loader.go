package marketdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"quanthelper/pkg/utils"
)

// Loader reads historical candle data from local files and can generate
// deterministic sample data for experiments.
type Loader struct{}

// NewLoader creates a new data loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFromCSV loads historical candle data from a CSV file.
// Expected format: timestamp,open,high,low,close,volume. The timestamp may be
// a Unix timestamp (seconds or milliseconds) or an RFC3339 / date string.
// Rows are sorted by timestamp; malformed rows are skipped.
func (l *Loader) LoadFromCSV(filename, symbol string) (*History, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// First row may be a header; detect by probing the open column.
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 1 {
		if _, err := strconv.ParseFloat(header[1], 64); err == nil {
			// Data row, not a header. Rewind.
			if _, err := file.Seek(0, io.SeekStart); err != nil {
				return nil, err
			}
			reader = csv.NewReader(file)
		}
	}

	candles := make([]Candle, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		if len(record) < 6 {
			continue
		}
		candle, err := parseCSVRecord(record, symbol)
		if err != nil {
			continue
		}
		candles = append(candles, candle)
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Timestamp.Before(candles[j].Timestamp)
	})

	return &History{Symbol: symbol, Candles: candles}, nil
}

func parseCSVRecord(record []string, symbol string) (Candle, error) {
	timestamp, err := parseTimestamp(record[0])
	if err != nil {
		return Candle{}, err
	}

	fields := make([]decimal.Decimal, 5)
	names := []string{"open", "high", "low", "close", "volume"}
	for i := 0; i < 5; i++ {
		fields[i], err = decimal.NewFromString(record[i+1])
		if err != nil {
			return Candle{}, fmt.Errorf("invalid %s: %w", names[i], err)
		}
	}

	return Candle{
		Symbol:    symbol,
		Timestamp: timestamp,
		Open:      fields[0],
		High:      fields[1],
		Low:       fields[2],
		Close:     fields[3],
		Volume:    fields[4],
	}, nil
}

// parseTimestamp accepts Unix seconds, Unix milliseconds, RFC3339 and a few
// common date layouts.
func parseTimestamp(s string) (time.Time, error) {
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil {
		if ts > 10000000000 {
			return time.UnixMilli(ts), nil
		}
		return time.Unix(ts, 0), nil
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse timestamp: %s", s)
}

// GenerateSampleData produces a deterministic daily price history, useful for
// trying strategies without network access.
func (l *Loader) GenerateSampleData(symbol string, startTime time.Time, days int, basePrice float64) *History {
	history := &History{
		Symbol:  symbol,
		Candles: make([]Candle, 0, days),
	}

	currentTime := startTime
	currentPrice := decimal.NewFromFloat(basePrice)

	for i := 0; i < days; i++ {
		// Repeating drift pattern in the -0.5%..+0.4% range.
		change := decimal.NewFromFloat((float64(i%10) - 5) * 0.001)
		open := currentPrice
		close := currentPrice.Add(currentPrice.Mul(change))

		high := utils.MaxDecimal(open, close).Mul(decimal.NewFromFloat(1.001))
		low := utils.MinDecimal(open, close).Mul(decimal.NewFromFloat(0.999))
		volume := decimal.NewFromFloat(1000 + float64(i%500))

		history.Candles = append(history.Candles, Candle{
			Symbol:    symbol,
			Timestamp: currentTime,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     close,
			Volume:    volume,
		})

		currentTime = currentTime.Add(24 * time.Hour)
		currentPrice = close
	}

	return history
}
