package payout

import (
	"math"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/totegamma/chitfund"
	"github.com/totegamma/chitfund/downline"
)

// rampSteps are paid on a rising multiple of the base rate; deeper steps are flat.
const rampSteps = 5

type Mode string

const (
	ModeIdeal  Mode = "ideal"
	ModeActual Mode = "actual"
)

const (
	idealFormula  = "payout(s) = rate(s) * 3^s; rate(s) = B*(s+1)/2 for s<=5, B for s>=6"
	actualFormula = "payout(s) = rate(s) * count(s); rate(s) = B*(s+1)/2 for s<=5, B for s>=6"
)

// Step is the payout of a single step.
type Step struct {
	Step        int     `json:"step"`
	CountUsed   int     `json:"countUsed"`
	RatePerHead float64 `json:"ratePerHead"`
	StepPayout  float64 `json:"stepPayout"`
}

// Metadata documents how a Result was produced. It never affects totals.
type Metadata struct {
	Mode         Mode      `json:"mode"`
	Formula      string    `json:"formula"`
	StepCount    int       `json:"stepCount"`
	CalculatedAt time.Time `json:"calculatedAt"`
}

type Result struct {
	BaseRate    float64  `json:"baseRate"`
	TotalPayout float64  `json:"totalPayout"`
	Steps       []Step   `json:"steps"`
	Metadata    Metadata `json:"metadata"`
}

// RatePerHead is the amount paid for each member on step.
func RatePerHead(step int, baseRate float64) (float64, error) {
	switch {
	case step >= 1 && step <= rampSteps:
		return baseRate * float64(step+1) / 2, nil
	case step > rampSteps && step <= chitfund.MaxStep:
		return baseRate, nil
	default:
		return 0, chitfund.NewInvalidInput("step", "%d is outside 1..%d", step, chitfund.MaxStep)
	}
}

type Calculator struct {
	clock clockwork.Clock
}

func NewCalculator(clock clockwork.Clock) *Calculator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Calculator{clock: clock}
}

// Calculate assumes every step up to maxSteps is saturated (3^s members).
func (c *Calculator) Calculate(baseRate float64, maxSteps int) (Result, error) {
	if err := validateBaseRate(baseRate); err != nil {
		return Result{}, err
	}
	if maxSteps < 1 || maxSteps > chitfund.MaxStep {
		return Result{}, chitfund.NewInvalidInput("maxSteps", "%d is outside 1..%d", maxSteps, chitfund.MaxStep)
	}

	counts := make([]int, maxSteps)
	for i := range counts {
		counts[i] = downline.Capacity(i + 1)
	}
	return c.build(baseRate, counts, ModeIdeal, idealFormula)
}

// CalculateWithActualCounts pays counts[i] members on step i+1.
func (c *Calculator) CalculateWithActualCounts(baseRate float64, counts []int) (Result, error) {
	if err := validateBaseRate(baseRate); err != nil {
		return Result{}, err
	}
	if len(counts) == 0 {
		return Result{}, chitfund.NewInvalidInput("actualCounts", "must not be empty")
	}
	if len(counts) > chitfund.MaxStep {
		return Result{}, chitfund.NewInvalidInput("actualCounts", "has %d steps, at most %d are defined", len(counts), chitfund.MaxStep)
	}
	for i, n := range counts {
		if n < 0 {
			return Result{}, chitfund.NewInvalidInput("actualCounts", "step %d has negative count %d", i+1, n)
		}
	}
	return c.build(baseRate, counts, ModeActual, actualFormula)
}

func (c *Calculator) build(baseRate float64, counts []int, mode Mode, formula string) (Result, error) {
	result := Result{
		BaseRate: baseRate,
		Steps:    make([]Step, 0, len(counts)),
	}

	for i, count := range counts {
		rate, err := RatePerHead(i+1, baseRate)
		if err != nil {
			return Result{}, err
		}
		stepPayout := rate * float64(count)
		result.Steps = append(result.Steps, Step{
			Step:        i + 1,
			CountUsed:   count,
			RatePerHead: rate,
			StepPayout:  stepPayout,
		})
		result.TotalPayout += stepPayout
	}

	result.Metadata = Metadata{
		Mode:         mode,
		Formula:      formula,
		StepCount:    len(counts),
		CalculatedAt: c.clock.Now().UTC(),
	}
	return result, nil
}

func validateBaseRate(baseRate float64) error {
	if !(baseRate > 0) || math.IsInf(baseRate, 1) {
		return chitfund.NewInvalidInput("baseRate", "must be a positive number, got %v", baseRate)
	}
	return nil
}
