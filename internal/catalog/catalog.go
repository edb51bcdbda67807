// Package catalog содержит справочник рационов GOODFOOD.
//
// Справочник читается один раз при запуске из встроенного plans.yaml и дальше
// только читается. Цены приёмов пищи и агрегаты меню не хранятся в файле, а
// рассчитываются пакетом pricing.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/mmeshcher/goodfood/internal/model"
	"github.com/mmeshcher/goodfood/internal/pricing"
)

//go:embed plans.yaml
var plansYAML []byte

var (
	// ErrDuplicatePlan возвращается, если рацион описан дважды.
	ErrDuplicatePlan = errors.New("duplicate plan")
	// ErrInvalidPlan возвращается для рациона с некорректными данными.
	ErrInvalidPlan = errors.New("invalid plan")
	// ErrMissingPlan возвращается, если в справочнике нет одного из рационов.
	ErrMissingPlan = errors.New("missing plan")
)

type planFile struct {
	Plans []planRecord `yaml:"plans"`
}

type planRecord struct {
	ID              string       `yaml:"id"`
	Title           string       `yaml:"title"`
	Calories        string       `yaml:"calories"`
	Emoji           string       `yaml:"emoji"`
	Description     string       `yaml:"description"`
	Macros          model.Macros `yaml:"macros"`
	Benefits        []string     `yaml:"benefits"`
	PricePerWeek    float64      `yaml:"pricePerWeek"`
	OldPricePerWeek float64      `yaml:"oldPricePerWeek"`
	Meals           []model.Meal `yaml:"meals"`
}

// Catalog хранит неизменяемый набор рационов.
type Catalog struct {
	plans map[model.PlanID]model.PlanDetails
	order []model.PlanID
}

// Summary описывает карточку рациона для страницы со списком рационов.
type Summary struct {
	ID              model.PlanID `json:"id"`
	Title           string       `json:"title"`
	Calories        string       `json:"calories"`
	Emoji           string       `json:"emoji"`
	Description     string       `json:"description"`
	Macros          model.Macros `json:"macros"`
	PricePerWeek    float64      `json:"pricePerWeek"`
	OldPricePerWeek float64      `json:"oldPricePerWeek"`
	Discount        int          `json:"discount"`
	ShowDiscount    bool         `json:"showDiscount"`
	MealCount       int          `json:"mealCount"`
}

// Load разбирает встроенный справочник рационов.
func Load() (*Catalog, error) {
	return Parse(plansYAML)
}

// Parse разбирает справочник рационов в формате YAML. Справочник должен
// содержать все рационы; порядок отображения не зависит от порядка в файле.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f planFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode plans: %w", err)
	}

	c := &Catalog{
		plans: make(map[model.PlanID]model.PlanDetails, len(f.Plans)),
	}

	for _, rec := range f.Plans {
		plan, err := rec.toPlan()
		if err != nil {
			return nil, err
		}
		if _, ok := c.plans[plan.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePlan, plan.ID)
		}
		c.plans[plan.ID] = plan
	}

	for _, id := range model.PlanIDs() {
		if _, ok := c.plans[id]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingPlan, id)
		}
		c.order = append(c.order, id)
	}

	return c, nil
}

func (r planRecord) toPlan() (model.PlanDetails, error) {
	id, err := model.ParsePlanID(r.ID)
	if err != nil {
		return model.PlanDetails{}, fmt.Errorf("%w: %q", err, r.ID)
	}

	if r.PricePerWeek < 0 || r.PricePerWeek > r.OldPricePerWeek {
		return model.PlanDetails{}, fmt.Errorf("%w: %s: price per week %v exceeds old price %v",
			ErrInvalidPlan, id, r.PricePerWeek, r.OldPricePerWeek)
	}

	for i, m := range r.Meals {
		if m.ProductsCost <= 0 {
			return model.PlanDetails{}, fmt.Errorf("%w: %s: meal %d has non-positive products cost", ErrInvalidPlan, id, i)
		}
		n := m.Nutrition
		if n.Calories < 0 || n.Protein < 0 || n.Fats < 0 || n.Carbs < 0 {
			return model.PlanDetails{}, fmt.Errorf("%w: %s: meal %d has negative nutrition", ErrInvalidPlan, id, i)
		}
	}

	return model.PlanDetails{
		ID:          id,
		Title:       r.Title,
		Calories:    r.Calories,
		Emoji:       r.Emoji,
		Description: r.Description,
		Macros:      r.Macros,
		Benefits:    r.Benefits,
		DailyMenu:   pricing.BuildDailyMenu(r.Meals, r.PricePerWeek, r.OldPricePerWeek),
	}, nil
}

// Get возвращает копию рациона по идентификатору.
func (c *Catalog) Get(id model.PlanID) (*model.PlanDetails, bool) {
	p, ok := c.plans[id]
	if !ok {
		return nil, false
	}
	cp := clonePlan(p)
	return &cp, true
}

// Has сообщает, есть ли рацион в справочнике.
func (c *Catalog) Has(id model.PlanID) bool {
	_, ok := c.plans[id]
	return ok
}

// List возвращает копии всех рационов в порядке отображения.
func (c *Catalog) List() []model.PlanDetails {
	res := make([]model.PlanDetails, 0, len(c.order))
	for _, id := range c.order {
		res = append(res, clonePlan(c.plans[id]))
	}
	return res
}

// Summaries возвращает карточки рационов для страницы выбора.
func (c *Catalog) Summaries() []Summary {
	res := make([]Summary, 0, len(c.order))
	for _, id := range c.order {
		p := c.plans[id]
		menu := p.DailyMenu
		res = append(res, Summary{
			ID:              p.ID,
			Title:           p.Title,
			Calories:        p.Calories,
			Emoji:           p.Emoji,
			Description:     p.Description,
			Macros:          p.Macros,
			PricePerWeek:    menu.PricePerWeek,
			OldPricePerWeek: menu.OldPricePerWeek,
			Discount:        pricing.DiscountPercent(menu.OldPricePerWeek, menu.PricePerWeek),
			ShowDiscount:    pricing.ShowDiscount(menu.OldPricePerWeek, menu.PricePerWeek),
			MealCount:       len(menu.Meals),
		})
	}
	return res
}

func clonePlan(p model.PlanDetails) model.PlanDetails {
	p.Benefits = append([]string(nil), p.Benefits...)

	meals := make([]model.Meal, len(p.DailyMenu.Meals))
	for i, m := range p.DailyMenu.Meals {
		m.Ingredients = append([]string(nil), m.Ingredients...)
		meals[i] = m
	}
	p.DailyMenu.Meals = meals

	return p
}
