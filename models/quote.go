package models

// Section identifies one of the four fixed quote categories
type Section string

const (
	SectionMaterials   Section = "materials"
	SectionConsumables Section = "consumables"
	SectionEquipment   Section = "equipment"
	SectionLabor       Section = "labor"
)

// Sections lists the quote sections in display order
var Sections = []Section{SectionMaterials, SectionConsumables, SectionEquipment, SectionLabor}

// LineItem represents one priced row of the quote
type LineItem struct {
	Name              string `json:"name"`
	Quantity          int64  `json:"quantity"`
	QuantityFormatted string `json:"quantityFormatted"`
	Unit              string `json:"unit"`
	Price             int64  `json:"price"`
	PriceFormatted    string `json:"priceFormatted"`
	Total             int64  `json:"total"`
	TotalFormatted    string `json:"totalFormatted"`
}

// CompanyInfo holds the banking details printed on every quote.
// Fields are flattened into the quote JSON to keep the widget contract.
type CompanyInfo struct {
	BankAccount string `json:"bankAccount" yaml:"bankAccount"`
	BankName    string `json:"bankName" yaml:"bankName"`
	BIK         string `json:"bik" yaml:"bik"`
	CorrAccount string `json:"corrAccount" yaml:"corrAccount"`
	CompanyName string `json:"companyName" yaml:"companyName"`
	INN         string `json:"inn" yaml:"inn"`
}

// Quote is the normalized price calculation built from a spreadsheet grid
type Quote struct {
	CompanyInfo `yaml:",inline"`

	Materials   []LineItem `json:"materials" yaml:"materials"`
	Consumables []LineItem `json:"consumables" yaml:"consumables"`
	Equipment   []LineItem `json:"equipment" yaml:"equipment"`
	Labor       []LineItem `json:"labor" yaml:"labor"`

	MaterialsTotal            int64  `json:"materialsTotal" yaml:"materialsTotal"`
	MaterialsTotalFormatted   string `json:"materialsTotalFormatted" yaml:"materialsTotalFormatted"`
	ConsumablesTotal          int64  `json:"consumablesTotal" yaml:"consumablesTotal"`
	ConsumablesTotalFormatted string `json:"consumablesTotalFormatted" yaml:"consumablesTotalFormatted"`
	EquipmentTotal            int64  `json:"equipmentTotal" yaml:"equipmentTotal"`
	EquipmentTotalFormatted   string `json:"equipmentTotalFormatted" yaml:"equipmentTotalFormatted"`
	LaborTotal                int64  `json:"laborTotal" yaml:"laborTotal"`
	LaborTotalFormatted       string `json:"laborTotalFormatted" yaml:"laborTotalFormatted"`

	// GrandTotal is read from a fixed sheet cell, it is not the sum of the subtotals
	GrandTotal          int64  `json:"grandTotal" yaml:"grandTotal"`
	GrandTotalFormatted string `json:"grandTotalFormatted" yaml:"grandTotalFormatted"`
}

// Items returns the line items of a section
func (q *Quote) Items(section Section) []LineItem {
	switch section {
	case SectionMaterials:
		return q.Materials
	case SectionConsumables:
		return q.Consumables
	case SectionEquipment:
		return q.Equipment
	case SectionLabor:
		return q.Labor
	}
	return nil
}

// SectionTotal returns the subtotal and its formatted form for a section
func (q *Quote) SectionTotal(section Section) (int64, string) {
	switch section {
	case SectionMaterials:
		return q.MaterialsTotal, q.MaterialsTotalFormatted
	case SectionConsumables:
		return q.ConsumablesTotal, q.ConsumablesTotalFormatted
	case SectionEquipment:
		return q.EquipmentTotal, q.EquipmentTotalFormatted
	case SectionLabor:
		return q.LaborTotal, q.LaborTotalFormatted
	}
	return 0, ""
}

// IsEmpty reports whether no section holds an item
func (q *Quote) IsEmpty() bool {
	return len(q.Materials)+len(q.Consumables)+len(q.Equipment)+len(q.Labor) == 0
}

// SectionTitle returns the Russian heading used in rendered documents
func SectionTitle(section Section) string {
	switch section {
	case SectionMaterials:
		return "Материал"
	case SectionConsumables:
		return "Расходники"
	case SectionEquipment:
		return "Техника"
	case SectionLabor:
		return "Работа"
	}
	return string(section)
}

// SectionTotalLabel returns the subtotal caption for a section
func SectionTotalLabel(section Section) string {
	switch section {
	case SectionMaterials:
		return "Итого материал"
	case SectionConsumables:
		return "Итого расходники"
	case SectionEquipment:
		return "Итого техника"
	case SectionLabor:
		return "Итого работы"
	}
	return "Итого"
}
