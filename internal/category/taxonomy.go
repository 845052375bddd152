// Package category holds the static per-profile category taxonomy.
//
// Two parallel taxonomies exist, one per locale. They are plain data built
// at init time and never mutated; lookups on an unknown profile or locale
// are programming errors and panic.
package category

import (
	"fmt"

	"gastos/internal/core"
)

// Locale selects the language of the taxonomy. The active locale is chosen
// once per session from configuration and never mixed mid-session.
type Locale string

const (
	LocaleEN Locale = "en"
	LocalePT Locale = "pt"
)

// ParseLocale returns the locale for a config string, defaulting to English
// when empty.
func ParseLocale(s string) (Locale, error) {
	switch Locale(s) {
	case "":
		return LocaleEN, nil
	case LocaleEN, LocalePT:
		return Locale(s), nil
	}
	return "", fmt.Errorf("unknown locale %q", s)
}

// group pairs a main category with its ordered subcategories.
type group struct {
	Main string
	Subs []string
}

var taxonomies = map[Locale]map[core.Profile][]group{
	LocaleEN: {
		core.ProfilePersonal: {
			{"Food", []string{"Groceries", "Restaurants", "Delivery", "Snacks"}},
			{"Transport", []string{"Fuel", "Public transport", "Ride hailing", "Parking"}},
			{"Health", []string{"Pharmacy", "Doctor", "Health insurance", "Gym"}},
			{"Leisure", []string{"Streaming", "Cinema", "Books", "Travel", "Hobbies"}},
			{"Shopping", []string{"Clothing", "Electronics", "Gifts"}},
			{"Education", []string{"Courses", "Subscriptions"}},
			{"Other", []string{"Fees", "Donations", "Miscellaneous"}},
		},
		core.ProfileHome: {
			{"Housing", []string{"Rent", "Mortgage", "Condo fees", "Insurance"}},
			{"Utilities", []string{"Electricity", "Water", "Gas", "Internet", "Phone"}},
			{"Groceries", []string{"Supermarket", "Butcher", "Bakery"}},
			{"Maintenance", []string{"Repairs", "Cleaning", "Furniture", "Garden"}},
			{"Family", []string{"Childcare", "School", "Pets"}},
			{"Other", []string{"Taxes", "Miscellaneous"}},
		},
		core.ProfileBusiness: {
			{"Operations", []string{"Supplies", "Software", "Equipment", "Shipping"}},
			{"People", []string{"Payroll", "Contractors", "Benefits", "Training"}},
			{"Sales", []string{"Marketing", "Advertising", "Commissions"}},
			{"Facilities", []string{"Office rent", "Utilities", "Maintenance"}},
			{"Finance", []string{"Bank fees", "Accounting", "Taxes", "Insurance"}},
			{"Other", []string{"Travel", "Meals", "Miscellaneous"}},
		},
	},
	LocalePT: {
		core.ProfilePersonal: {
			{"Alimentação", []string{"Mercado", "Restaurantes", "Delivery", "Lanches"}},
			{"Transporte", []string{"Combustível", "Transporte público", "Aplicativo", "Estacionamento"}},
			{"Saúde", []string{"Farmácia", "Médico", "Plano de saúde", "Academia"}},
			{"Lazer", []string{"Streaming", "Cinema", "Livros", "Viagem", "Hobbies"}},
			{"Compras", []string{"Roupas", "Eletrônicos", "Presentes"}},
			{"Educação", []string{"Cursos", "Assinaturas"}},
			{"Outros", []string{"Tarifas", "Doações", "Diversos"}},
		},
		core.ProfileHome: {
			{"Moradia", []string{"Aluguel", "Financiamento", "Condomínio", "Seguro"}},
			{"Contas", []string{"Luz", "Água", "Gás", "Internet", "Telefone"}},
			{"Mercado", []string{"Supermercado", "Açougue", "Padaria"}},
			{"Manutenção", []string{"Reparos", "Limpeza", "Móveis", "Jardim"}},
			{"Família", []string{"Creche", "Escola", "Pets"}},
			{"Outros", []string{"Impostos", "Diversos"}},
		},
		core.ProfileBusiness: {
			{"Operação", []string{"Insumos", "Software", "Equipamentos", "Frete"}},
			{"Pessoal", []string{"Folha de pagamento", "Terceiros", "Benefícios", "Treinamento"}},
			{"Vendas", []string{"Marketing", "Publicidade", "Comissões"}},
			{"Estrutura", []string{"Aluguel do escritório", "Contas", "Manutenção"}},
			{"Financeiro", []string{"Tarifas bancárias", "Contabilidade", "Impostos", "Seguros"}},
			{"Outros", []string{"Viagens", "Refeições", "Diversos"}},
		},
	},
}

// Lookup returns the full taxonomy for a profile and locale as a mapping
// from main category to its ordered subcategories. The returned map is
// freshly built; callers may not rely on mutating shared state through it.
func Lookup(profile core.Profile, locale Locale) map[string][]string {
	out := make(map[string][]string)
	for _, g := range profileGroups(profile, locale) {
		out[g.Main] = append([]string(nil), g.Subs...)
	}
	return out
}

// Mains returns the main categories of a profile in their declared order.
func Mains(profile core.Profile, locale Locale) []string {
	groups := profileGroups(profile, locale)
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Main
	}
	return out
}

// Subcategories returns the ordered subcategories of one main category, or
// nil when the main category does not exist for the profile.
func Subcategories(profile core.Profile, locale Locale, main string) []string {
	for _, g := range profileGroups(profile, locale) {
		if g.Main == main {
			return append([]string(nil), g.Subs...)
		}
	}
	return nil
}

func profileGroups(profile core.Profile, locale Locale) []group {
	byProfile, ok := taxonomies[locale]
	if !ok {
		panic(fmt.Sprintf("category: unknown locale %q", locale))
	}
	groups, ok := byProfile[profile]
	if !ok {
		panic(fmt.Sprintf("category: unknown profile %q", profile))
	}
	return groups
}
