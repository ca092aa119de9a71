package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged dice rolling.
// All rolls are logged at debug level with expression, dice values, modifier, and total.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Source returns the underlying randomness provider.
func (r *Roller) Source() Source {
	return r.src
}

// RollDie rolls one die of the given size and logs it.
//
// Precondition: sides >= 1.
func (r *Roller) RollDie(sides int) int {
	v := RollDie(r.src, sides)
	r.logger.Debug("die roll", zap.Int("sides", sides), zap.Int("result", v))
	return v
}

// RollDice parses and rolls notation with flatBonus and logs the result.
//
// Postcondition: Returns a RollResult or a parse error; parse failures are not logged here.
func (r *Roller) RollDice(notation string, flatBonus int) (RollResult, error) {
	result, err := RollDice(r.src, notation, flatBonus)
	if err != nil {
		return RollResult{}, err
	}
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result, nil
}

// RollD20Check rolls a d20 check and logs it.
func (r *Roller) RollD20Check(modifier, tempTotal int) CheckResult {
	c := RollD20Check(r.src, modifier, tempTotal)
	r.logger.Debug("d20 check",
		zap.Int("natural", c.Natural),
		zap.Int("modifier", c.Modifier),
		zap.Int("temp", c.Temp),
		zap.Int("total", c.Total),
		zap.Bool("critical", c.Critical),
		zap.Bool("fumble", c.Fumble),
	)
	return c
}
