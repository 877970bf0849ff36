// Command backtest runs a trading strategy simulation over historical prices
// and prints a performance report against a buy-and-hold benchmark.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"

	"quanthelper/internal/backtest"
	"quanthelper/internal/config"
	"quanthelper/internal/costs"
	"quanthelper/internal/logger"
	"quanthelper/internal/marketdata"
	"quanthelper/internal/metrics"
	"quanthelper/internal/strategy"
)

var (
	coin           = flag.String("coin", "bitcoin", "CoinGecko coin identifier")
	days           = flag.Int("days", 180, "Days of history to fetch")
	dataFile       = flag.String("data", "", "Path to CSV file with historical data (overrides -coin)")
	generateSample = flag.Bool("generate-sample", false, "Generate sample data instead of fetching")
	sampleDays     = flag.Int("sample-days", 365, "Number of days of sample data to generate")
	runFile        = flag.String("config", "", "Path to a YAML run file")

	capital    = flag.Float64("capital", 0, "Initial capital (overrides environment)")
	commission = flag.Float64("commission", -1, "Commission rate, e.g. 0.0005 (overrides environment)")
	slippage   = flag.Float64("slippage", -1, "Slippage rate, e.g. 0.0005 (overrides environment)")

	fastWindow = flag.Int("fast", 7, "Fast moving average window")
	slowWindow = flag.Int("slow", 25, "Slow moving average window")
	buyHold    = flag.Bool("buy-hold", false, "Run the buy-and-hold strategy instead of the crossover")

	sweep   = flag.Bool("sweep", false, "Sweep crossover windows and rank by Sharpe ratio")
	verbose = flag.Bool("verbose", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		logger.WithError(err).Error("backtest failed")
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Format = cfg.LogFormat
	if *verbose {
		logCfg.Level = slog.LevelDebug
	}
	logger.SetDefault(logger.New(logCfg))

	applyFlags(cfg)
	if *runFile != "" {
		if err := applyRunFile(cfg, *runFile); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	history, err := loadHistory()
	if err != nil {
		return err
	}
	log := logger.Symbol(history.Symbol)
	log.Info("loaded price history",
		"candles", len(history.Candles),
		"start", history.Start().Format("2006-01-02"),
		"end", history.End().Format("2006-01-02"))

	if *sweep {
		return runSweep(cfg, history)
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}

	var strat strategy.Strategy = strategy.NewMovingAverageCross(*fastWindow, *slowWindow)
	if *buyHold {
		strat = strategy.BuyAndHold{}
	}

	result, err := engine.Run(strat, history)
	if err != nil {
		return err
	}

	fmt.Println(backtest.NewReporter().Format(result))
	return nil
}

func applyFlags(cfg *config.Config) {
	if *capital > 0 {
		cfg.InitialCapital = decimal.NewFromFloat(*capital)
	}
	if *commission >= 0 {
		cfg.Commission = decimal.NewFromFloat(*commission)
	}
	if *slippage >= 0 {
		cfg.Slippage = decimal.NewFromFloat(*slippage)
	}
}

func applyRunFile(cfg *config.Config, path string) error {
	run, err := config.LoadRunFile(path)
	if err != nil {
		return err
	}
	if run.Coin != "" {
		*coin = run.Coin
	}
	if run.Days > 0 {
		*days = run.Days
	}
	if run.InitialCapital > 0 {
		cfg.InitialCapital = decimal.NewFromFloat(run.InitialCapital)
	}
	if run.Commission > 0 {
		cfg.Commission = decimal.NewFromFloat(run.Commission)
	}
	if run.Slippage > 0 {
		cfg.Slippage = decimal.NewFromFloat(run.Slippage)
	}
	if run.FastWindow > 0 {
		*fastWindow = run.FastWindow
	}
	if run.SlowWindow > 0 {
		*slowWindow = run.SlowWindow
	}
	return nil
}

func loadHistory() (*marketdata.History, error) {
	loader := marketdata.NewLoader()

	switch {
	case *generateSample:
		start := time.Now().UTC().AddDate(0, 0, -*sampleDays).Truncate(24 * time.Hour)
		return loader.GenerateSampleData(*coin, start, *sampleDays, 50000), nil
	case *dataFile != "":
		return loader.LoadFromCSV(*dataFile, *coin)
	default:
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		end := time.Now().UTC()
		start := end.AddDate(0, 0, -*days)
		return marketdata.NewClient().FetchPrices(ctx, *coin, start, end)
	}
}

func newEngine(cfg *config.Config) (*backtest.Engine, error) {
	engineCfg := &backtest.Config{
		InitialCapital: cfg.InitialCapital,
		Analyzer: &metrics.Analyzer{
			RiskFreeRate:   cfg.RiskFreeRate,
			PeriodsPerYear: cfg.PeriodsPerYear,
		},
	}
	if cfg.Commission.IsPositive() || cfg.Slippage.IsPositive() {
		engineCfg.CostModel = costs.NewModel(cfg.Commission, cfg.Slippage)
	}
	return backtest.NewEngine(engineCfg)
}

type sweepEntry struct {
	fast, slow int
	sharpe     float64
	totalRet   float64
}

// runSweep tries every fast/slow window pair on an independent engine per run
// and prints the top combinations by Sharpe ratio.
func runSweep(cfg *config.Config, history *marketdata.History) error {
	fasts := []int{5, 7, 9, 12, 15, 20}
	slows := []int{20, 25, 30, 40, 50, 60}

	var pairs [][2]int
	for _, f := range fasts {
		for _, s := range slows {
			if f < s {
				pairs = append(pairs, [2]int{f, s})
			}
		}
	}

	bar := progressbar.NewOptions(len(pairs),
		progressbar.OptionSetDescription("Sweeping crossover windows..."),
		progressbar.OptionShowCount(),
		progressbar.OptionSetElapsedTime(true),
	)

	entries := make([]sweepEntry, 0, len(pairs))
	for _, pair := range pairs {
		engine, err := newEngine(cfg)
		if err != nil {
			return err
		}
		result, err := engine.Run(strategy.NewMovingAverageCross(pair[0], pair[1]), history)
		if err != nil {
			return err
		}
		entries = append(entries, sweepEntry{
			fast:     pair[0],
			slow:     pair[1],
			sharpe:   result.StrategySummary.SharpeRatio,
			totalRet: result.StrategySummary.TotalReturn,
		})
		_ = bar.Add(1)
	}
	fmt.Println()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].sharpe > entries[j].sharpe
	})

	fmt.Printf("%-10s %-10s %-10s %-10s\n", "FAST", "SLOW", "SHARPE", "RETURN")
	top := entries
	if len(top) > 10 {
		top = top[:10]
	}
	for _, e := range top {
		fmt.Printf("%-10d %-10d %-10.2f %-9.2f%%\n", e.fast, e.slow, e.sharpe, e.totalRet*100)
	}
	return nil
}
