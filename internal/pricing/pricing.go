// Package pricing рассчитывает цены рационов: наценку, стоимость дня, скидку и итог к оплате.
package pricing

import (
	"math"

	"github.com/mmeshcher/goodfood/internal/model"
)

// CashFee задаёт комиссию за оплату наличными курьеру.
const CashFee = 100

// MealMarkup возвращает наценку для стоимости продуктов.
func MealMarkup(productsCost float64) float64 {
	return productsCost * model.MarkupRate
}

// MealPrice возвращает цену для клиента: стоимость продуктов плюс наценка.
func MealPrice(productsCost float64) float64 {
	return productsCost + MealMarkup(productsCost)
}

// BuildDailyMenu собирает дневное меню и рассчитывает все агрегированные показатели.
// Недельные цены задаются отдельно и в расчёте не участвуют.
func BuildDailyMenu(meals []model.Meal, pricePerWeek, oldPricePerWeek float64) model.DailyMenu {
	m := model.DailyMenu{
		Meals:           meals,
		PricePerWeek:    pricePerWeek,
		OldPricePerWeek: oldPricePerWeek,
	}
	Recompute(&m)
	return m
}

// Recompute пересчитывает суммы КБЖУ, стоимость продуктов, наценку и цену за день.
func Recompute(m *model.DailyMenu) {
	var (
		total model.Nutrition
		cost  float64
	)
	for _, meal := range m.Meals {
		total = total.Add(meal.Nutrition)
		cost += meal.ProductsCost
	}

	m.TotalNutrition = total
	m.TotalProductsCost = cost
	m.TotalMarkup = MealMarkup(cost)
	m.PricePerDay = cost + m.TotalMarkup
}

// DiscountPercent возвращает процент скидки для бейджа, округлённый до целого.
// Для нулевой старой цены и для цены без скидки возвращается 0.
func DiscountPercent(oldPricePerWeek, pricePerWeek float64) int {
	if oldPricePerWeek <= 0 || oldPricePerWeek <= pricePerWeek {
		return 0
	}
	// math.Floor(x+0.5): округление половины вверх
	return int(math.Floor((oldPricePerWeek-pricePerWeek)/oldPricePerWeek*100 + 0.5))
}

// ShowDiscount сообщает, нужно ли показывать бейдж скидки.
func ShowDiscount(oldPricePerWeek, pricePerWeek float64) bool {
	return DiscountPercent(oldPricePerWeek, pricePerWeek) > 0
}

// CheckoutTotal возвращает сумму к оплате за неделю с учётом способа оплаты.
func CheckoutTotal(pricePerWeek float64, method model.PaymentMethod) float64 {
	if method == model.PaymentCash {
		return pricePerWeek + CashFee
	}
	return pricePerWeek
}
