package tabs

import (
	"regexp"

	"github.com/mptcli/cli/internal/models"
)

// productRequiredTabs lists every sheet a product workbook must carry.
var productRequiredTabs = []string{
	models.SheetGeneral,
	models.SheetSettings,
	models.SheetItems,
	models.SheetItemGroups,
	models.SheetParameterGroups,
	models.SheetAgreementsParameters,
	models.SheetAssetsParameters,
	models.SheetItemParameters,
	models.SheetRequestParameters,
	models.SheetSubscriptionParameters,
	models.SheetTemplates,
}

// priceListRequiredTabs lists every sheet a price-list workbook must carry.
var priceListRequiredTabs = []string{
	models.SheetGeneral,
	models.SheetPriceItems,
}

// ProductGeneralSpec describes the vertical General tab of a product
// workbook. It also owns the workbook-level tab and field requirements.
func ProductGeneralSpec() Spec {
	requiredFields := map[string][]string{
		models.SheetGeneral:         models.ProductFields,
		models.SheetSettings:        models.SettingsFields,
		models.SheetItems:           models.ItemFields,
		models.SheetItemGroups:      models.ItemGroupFields,
		models.SheetParameterGroups: models.ParameterGroupFields,
		models.SheetTemplates:       models.TemplateFields,
	}
	for _, sheet := range models.ParameterSheets {
		requiredFields[sheet] = models.ParameterFields
	}
	return Spec{
		Shape:               Vertical,
		SheetName:           models.SheetGeneral,
		Title:               "General Information",
		Fields:              models.ProductFields,
		IDField:             "Product ID",
		RequiredTabs:        productRequiredTabs,
		RequiredFieldsByTab: requiredFields,
		ValueRequiredFields: models.ProductRequiredValues,
	}
}

// SettingsSpec describes the horizontal Settings tab.
func SettingsSpec() Spec {
	return Spec{
		Shape:     Horizontal,
		SheetName: models.SheetSettings,
		Fields:    models.SettingsFields,
		IDField:   "Setting",
		Validations: map[string][]string{
			"Action": models.DataActions,
		},
	}
}

// ItemGroupsSpec describes the Items Groups tab.
func ItemGroupsSpec() Spec {
	return Spec{
		Shape:     Horizontal,
		SheetName: models.SheetItemGroups,
		Fields:    models.ItemGroupFields,
		IDField:   "ID",
		Validations: map[string][]string{
			"Action": models.DataActions,
		},
	}
}

// ParameterGroupsSpec describes the Parameters Groups tab.
func ParameterGroupsSpec() Spec {
	return Spec{
		Shape:     Horizontal,
		SheetName: models.SheetParameterGroups,
		Fields:    models.ParameterGroupFields,
		IDField:   "ID",
		Validations: map[string][]string{
			"Action": models.DataActions,
		},
	}
}

// ParameterSpec describes one of the five scoped parameter tabs.
func ParameterSpec(scope string) Spec {
	return Spec{
		Shape:     Horizontal,
		SheetName: models.ParameterSheets[scope],
		Fields:    models.ParameterFields,
		IDField:   "ID",
		Validations: map[string][]string{
			"Action": models.DataActions,
		},
	}
}

// TemplatesSpec describes the Templates tab.
func TemplatesSpec() Spec {
	return Spec{
		Shape:     Horizontal,
		SheetName: models.SheetTemplates,
		Fields:    models.TemplateFields,
		IDField:   "ID",
		Validations: map[string][]string{
			"Action": models.DataActions,
		},
	}
}

// ItemsSpec describes the dynamic Items tab with its Parameter.* columns.
func ItemsSpec() Spec {
	return Spec{
		Shape:     Dynamic,
		SheetName: models.SheetItems,
		Fields:    models.ItemFields,
		IDField:   "ID",
		Validations: map[string][]string{
			"Action": models.ItemActions,
		},
		DynamicPatterns: []*regexp.Regexp{models.ItemParameterPattern},
	}
}

// PriceListGeneralSpec describes the vertical General tab of a price-list
// workbook.
func PriceListGeneralSpec() Spec {
	return Spec{
		Shape:        Vertical,
		SheetName:    models.SheetGeneral,
		Title:        "General Information",
		Fields:       models.PriceListFields,
		IDField:      "Price List ID",
		RequiredTabs: priceListRequiredTabs,
		RequiredFieldsByTab: map[string][]string{
			models.SheetGeneral:    models.PriceListFields,
			models.SheetPriceItems: models.PriceListItemFields,
		},
		ValueRequiredFields: models.PriceListRequiredValues,
	}
}

// PriceItemsSpec describes the Price Items tab. Unit prices are formatted
// with the price list's currency.
func PriceItemsSpec() Spec {
	return Spec{
		Shape:     Horizontal,
		SheetName: models.SheetPriceItems,
		Fields:    models.PriceListItemFields,
		IDField:   "ID",
		Validations: map[string][]string{
			"Action": models.DataActions,
			"Status": models.PriceStatuses,
		},
		CurrencyFields: []string{"Unit LP", "Unit PP", "Unit SP"},
	}
}
