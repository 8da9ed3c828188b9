// Package catalog provides the fixed category sets used to validate user
// selections and to order category menus and report lines.
package catalog

// Catalog is an immutable ordered set of category labels. The order is the
// one menus and reports are rendered in; membership is used for validation.
type Catalog struct {
	labels []string
	index  map[string]struct{}
}

func New(labels ...string) *Catalog {
	c := &Catalog{
		labels: append([]string(nil), labels...),
		index:  make(map[string]struct{}, len(labels)),
	}
	for _, l := range labels {
		c.index[l] = struct{}{}
	}
	return c
}

// Contains reports whether label is a member of the catalog.
func (c *Catalog) Contains(label string) bool {
	_, ok := c.index[label]
	return ok
}

// Labels returns the labels in catalog order. The returned slice is a copy.
func (c *Catalog) Labels() []string {
	return append([]string(nil), c.labels...)
}

func (c *Catalog) Len() int {
	return len(c.labels)
}

// DefaultIncome returns the income category set, fixed for the process
// lifetime. Labels match the data already persisted by existing deployments.
func DefaultIncome() *Catalog {
	return New("Зарплата", "Подарки", "Подработка", "Инвестиции", "Другое")
}

// DefaultExpense returns the expense category set.
func DefaultExpense() *Catalog {
	return New("Еда", "Транспорт", "Развлечения", "Одежда", "Коммунальные", "Другое")
}
