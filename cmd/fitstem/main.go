// Package main searches stem age and roughness with CMA-ES so that the
// fully grown stem's tip lands as close as possible to a target point.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/stem/config"
	"github.com/pthm-cable/stem/export"
	"github.com/pthm-cable/stem/systems"
)

// evalRow is one line of optimize_log.csv.
type evalRow struct {
	Eval      int     `csv:"eval"`
	Fitness   float64 `csv:"fitness"`
	Age       float64 `csv:"age"`
	Roughness float64 `csv:"roughness"`
	TipX      float64 `csv:"tip_x"`
	TipY      float64 `csv:"tip_y"`
	TipZ      float64 `csv:"tip_z"`
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	targetX := flag.Float64("target-x", 2, "Target tip x")
	targetY := flag.Float64("target-y", 12, "Target tip y")
	targetZ := flag.Float64("target-z", 0, "Target tip z")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()
	if cfg.Physics.DT <= 0 {
		log.Fatal("physics.dt must be > 0 to grow stems")
	}

	noise, err := systems.NewNoiseSource(cfg.Noise.Kind, cfg.Noise.Seed)
	if err != nil {
		log.Fatalf("failed to create noise source: %v", err)
	}
	sim := systems.NewGrowthSimulator(systems.GrowthConfig{
		LengthPerAge:   cfg.Growth.LengthPerAge,
		PointsPerUnit:  cfg.Growth.PointsPerUnit,
		RisePerPoint:   cfg.Growth.RisePerPoint,
		NoiseFrequency: cfg.Growth.NoiseFrequency,
		NoiseAmplitude: cfg.Growth.NoiseAmplitude,
		Epsilon:        cfg.Growth.Epsilon,
	}, noise)

	base := cfg.Stem.Params
	params := NewParamVector(base)
	target := r3.Vec{X: *targetX, Y: *targetY, Z: *targetZ}
	evaluator := NewFitnessEvaluator(params, base, sim, cfg.Physics.DT, target)

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(params.Dim())/2.0)
	}

	var rows []evalRow
	bestFitness := -1.0
	var bestRaw []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Denormalize(x)
			fitness := evaluator.Evaluate(raw)
			applied := params.Apply(base, raw)
			tip := evaluator.LastTip()

			rows = append(rows, evalRow{
				Eval:      len(rows) + 1,
				Fitness:   fitness,
				Age:       applied.Age,
				Roughness: applied.Roughness,
				TipX:      tip.X,
				TipY:      tip.Y,
				TipZ:      tip.Z,
			})
			if bestRaw == nil || fitness < bestFitness {
				bestFitness = fitness
				bestRaw = append(bestRaw[:0], raw...)
			}
			return fitness
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0,
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	fmt.Printf("Fitting tip to (%.2f, %.2f, %.2f), population=%d, max_evals=%d\n",
		target.X, target.Y, target.Z, popSize, *maxEvals)

	if _, err := optimize.Minimize(problem, params.Normalize(params.DefaultVector()), settings, method); err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if bestRaw == nil {
		log.Fatal("no evaluations completed")
	}

	best := params.Apply(base, bestRaw)
	fmt.Printf("\nDone after %d evaluations in %s\n", len(rows), time.Since(startTime).Round(time.Millisecond))
	fmt.Printf("Best distance: %.4f\n  age: %.4f\n  roughness: %.4f\n", bestFitness, best.Age, best.Roughness)

	logPath := filepath.Join(*outputDir, "optimize_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	if err := gocsv.MarshalFile(&rows, logFile); err != nil {
		log.Printf("failed to write log: %v", err)
	}
	logFile.Close()

	bestCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to reload config: %v", err)
	}
	bestCfg.Stem.Params = best
	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("Best config saved to: %s\n", configOutPath)
	}

	mesher := systems.NewTubeMesher(cfg.Mesh.HeightSegments, cfg.Mesh.RadialSegments)
	mesh := mesher.Build(evaluator.Grow(best), best.Thickness)
	if mesh.IsEmpty() {
		return
	}
	if path, err := export.SaveOBJ(*outputDir, "best", &mesh); err != nil {
		log.Printf("failed to export best mesh: %v", err)
	} else {
		fmt.Printf("Best mesh saved to: %s\n", path)
	}
}
