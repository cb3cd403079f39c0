package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-sniper-engine/internal/config"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/constants"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/fees"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/sniper"
)

func loadEnv() {
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	_ = godotenv.Load(filepath.Join(projectRoot, ".env"))
}

// resolveMint accepts a known token symbol or a raw mint address
func resolveMint(token string) string {
	if mint, ok := constants.TokenMints[strings.ToUpper(token)]; ok {
		return mint
	}
	return token
}

func main() {
	loadEnv()

	mode := flag.String("mode", "quote", "quote | fee | execute")
	inTok := flag.String("in", "SOL", "input token symbol or mint address")
	outTok := flag.String("out", "USDC", "output token symbol or mint address")
	amt := flag.Uint64("amt", 0, "amount in base units (e.g. lamports)")
	notional := flag.Float64("notional", 0, "trade notional in USD (drives endpoint selection)")
	slippageBps := flag.Int("slippage-bps", 0, "slippage limit in bps (0 = configured default)")
	multiHop := flag.Bool("multi-hop", false, "allow multi-hop aggregator routes")
	urgency := flag.String("urgency", "high", "fee urgency: low | medium | high")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Println("invalid configuration:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	engine, err := sniper.NewEngine(ctx, cfg, logger)
	if err != nil {
		fmt.Println("failed to init engine:", err)
		os.Exit(1)
	}
	defer engine.Close()

	params := &sniper.SnipeParams{
		InputMint:     resolveMint(*inTok),
		OutputMint:    resolveMint(*outTok),
		AmountIn:      *amt,
		NotionalUSD:   *notional,
		SlippageBps:   uint16(*slippageBps),
		AllowMultiHop: *multiHop,
	}

	switch *mode {
	case "quote":
		if *amt == 0 {
			fmt.Println("missing -amt (must be > 0)")
			os.Exit(2)
		}
		cmp, err := engine.Quote(ctx, params)
		if err != nil {
			fmt.Println("quote failed:", err)
			os.Exit(1)
		}
		fmt.Printf("best=%s out=%d impact=%.4f%% latency=%dms (venues quoted: %d)\n",
			cmp.Best.Provider, cmp.Best.OutAmount, cmp.Best.PriceImpactPct,
			cmp.Best.LatencyMs, len(cmp.Venues)+1)

	case "fee":
		u := fees.UrgencyHigh
		switch strings.ToLower(*urgency) {
		case "low":
			u = fees.UrgencyLow
		case "medium":
			u = fees.UrgencyMedium
		}
		fee, sample := engine.EstimateFee(ctx, u)
		fmt.Printf("urgency=%s fee=%d congestion=%s p95=%d p99=%d degraded=%v\n",
			u, fee, sample.Level, sample.P95, sample.P99, sample.Degraded)

	case "execute":
		if *amt == 0 {
			fmt.Println("missing -amt (must be > 0)")
			os.Exit(2)
		}
		res, err := engine.Execute(ctx, params)
		if err != nil {
			fmt.Println("execute failed:", err)
			if res != nil {
				out, _ := json.MarshalIndent(res, "", "  ")
				fmt.Println(string(out))
			}
			os.Exit(1)
		}
		fmt.Printf("success=%v sig=%s provider=%s endpoint=%s fee=%d elapsed=%dms\n",
			res.Success, res.Signature, res.Provider, res.Endpoint,
			res.PriorityFee, res.TotalElapsedMs)

	default:
		fmt.Println("invalid -mode (use quote|fee|execute)")
		os.Exit(2)
	}
}
