package dice

// Roll evaluates an Expression using the given Source and returns a RollResult.
//
// Precondition: expr must come from Parse; src must be non-nil.
// Postcondition: len(result.Dice) == expr.Count;
// result.Total() == sum(result.Dice) + result.Modifier.
func Roll(expr Expression, src Source) RollResult {
	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = src.Intn(expr.Sides) + 1
	}
	return RollResult{
		Expression: expr.Raw,
		Dice:       rolled,
		Modifier:   expr.Modifier,
	}
}

// RollDie returns a uniform random integer in [1, sides].
//
// Precondition: sides >= 1; panics otherwise.
func RollDie(src Source, sides int) int {
	if sides < 1 {
		panic("dice: RollDie called with sides < 1")
	}
	return src.Intn(sides) + 1
}

// RollDice parses notation and rolls it, adding flatBonus to the modifier.
//
// Postcondition: Returns a RollResult whose Modifier includes flatBonus,
// or an error matching errors.ErrParse with no dice drawn.
func RollDice(src Source, notation string, flatBonus int) (RollResult, error) {
	expr, err := Parse(notation)
	if err != nil {
		return RollResult{}, err
	}
	result := Roll(expr, src)
	result.Modifier += flatBonus
	return result, nil
}

// RollD20Check rolls a single d20 and applies modifier and tempTotal.
//
// Postcondition: result.Total == result.Natural + modifier + tempTotal;
// Critical iff Natural == 20; Fumble iff Natural == 1.
func RollD20Check(src Source, modifier, tempTotal int) CheckResult {
	natural := RollDie(src, 20)
	return CheckResult{
		Natural:  natural,
		Modifier: modifier,
		Temp:     tempTotal,
		Total:    natural + modifier + tempTotal,
		Critical: natural == 20,
		Fumble:   natural == 1,
	}
}
