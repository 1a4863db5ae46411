package domain

import "math"

// ScaleNutritionalValues converts an ingredient's nutritional basis into the
// actual values contributed by quantity of the given unit.
//
// The basis depends on the unit: values for g and ml are declared per
// 100g/100ml, so 250g means a multiplier of 2.5; values for item, cup,
// tablespoon and teaspoon are declared per single unit, so 3 teaspoons means
// a multiplier of 3. Unknown units fall back to the per-unit interpretation.
// All results are rounded to two decimals.
func ScaleNutritionalValues(base NutritionalValues, quantity float64, unit Unit) NutritionalValues {
	var multiplier float64
	switch unit {
	case UnitGram, UnitMilliliter:
		multiplier = quantity / 100
	default:
		multiplier = quantity
	}

	return NutritionalValues{
		Calories:      round2(base.Calories * multiplier),
		Protein:       round2(base.Protein * multiplier),
		Carbohydrates: round2(base.Carbohydrates * multiplier),
		Fat:           round2(base.Fat * multiplier),
		Vitamins:      scaleMap(base.Vitamins, multiplier),
		Minerals:      scaleMap(base.Minerals, multiplier),
	}
}

// SumNutritionalValues adds the given values together, unioning vitamin and
// mineral keys. Summing an empty slice yields the zero value with empty maps.
func SumNutritionalValues(values []NutritionalValues) NutritionalValues {
	total := NutritionalValues{
		Vitamins: map[string]float64{},
		Minerals: map[string]float64{},
	}
	for _, v := range values {
		total.Calories += v.Calories
		total.Protein += v.Protein
		total.Carbohydrates += v.Carbohydrates
		total.Fat += v.Fat
		for k, n := range v.Vitamins {
			total.Vitamins[k] += n
		}
		for k, n := range v.Minerals {
			total.Minerals[k] += n
		}
	}
	total.Calories = round2(total.Calories)
	total.Protein = round2(total.Protein)
	total.Carbohydrates = round2(total.Carbohydrates)
	total.Fat = round2(total.Fat)
	for k, n := range total.Vitamins {
		total.Vitamins[k] = round2(n)
	}
	for k, n := range total.Minerals {
		total.Minerals[k] = round2(n)
	}
	return total
}

// PerServing divides totals by the serving count. A divisor <= 0 returns the
// values unchanged.
func PerServing(total NutritionalValues, servings int) NutritionalValues {
	if servings <= 0 {
		return total
	}
	d := float64(servings)
	return NutritionalValues{
		Calories:      round2(total.Calories / d),
		Protein:       round2(total.Protein / d),
		Carbohydrates: round2(total.Carbohydrates / d),
		Fat:           round2(total.Fat / d),
		Vitamins:      scaleMap(total.Vitamins, 1/d),
		Minerals:      scaleMap(total.Minerals, 1/d),
	}
}

func scaleMap(m map[string]float64, multiplier float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = round2(v * multiplier)
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
