package xbrl

import (
	"strings"

	"github.com/epeers/edinetfin/internal/models"
)

// synonyms lists, per field, the element local names that have carried the value
// across taxonomy versions and accounting standards. Earlier names win.
var synonyms = map[models.Field][]string{
	models.FieldRevenue: {
		"NetSales",
		"Revenue",
		"OperatingRevenue",
		"NetSalesSummaryOfBusinessResults",
		"RevenueIFRS",
		"RevenueIFRSSummaryOfBusinessResults",
		"RevenuesUSGAAPSummaryOfBusinessResults",
		"OperatingRevenue1SummaryOfBusinessResults",
	},
	models.FieldOperatingIncome: {
		"OperatingIncome",
		"OperatingProfit",
		"OperatingIncomeSummaryOfBusinessResults",
		"OperatingProfitLossIFRS",
		"OperatingProfitLossIFRSSummaryOfBusinessResults",
		"OperatingIncomeLossUSGAAPSummaryOfBusinessResults",
	},
	models.FieldOrdinaryIncome: {
		"OrdinaryIncome",
		"OrdinaryProfit",
		"OrdinaryIncomeSummaryOfBusinessResults",
		"OrdinaryIncomeLossSummaryOfBusinessResults",
	},
	models.FieldNetIncome: {
		"NetIncome",
		"ProfitAttributableToOwnersOfParent",
		"NetIncomeSummaryOfBusinessResults",
		"ProfitLossAttributableToOwnersOfParent",
		"ProfitLossAttributableToOwnersOfParentSummaryOfBusinessResults",
		"ProfitLossAttributableToOwnersOfParentIFRS",
		"ProfitLossAttributableToOwnersOfParentIFRSSummaryOfBusinessResults",
		"NetIncomeLossAttributableToOwnersOfParentUSGAAPSummaryOfBusinessResults",
		"ProfitLoss",
	},
	models.FieldTotalAssets: {
		"TotalAssets",
		"Assets",
		"TotalAssetsSummaryOfBusinessResults",
		"AssetsIFRS",
		"TotalAssetsIFRSSummaryOfBusinessResults",
		"TotalAssetsUSGAAPSummaryOfBusinessResults",
	},
	models.FieldTotalLiabilities: {
		"Liabilities",
		"TotalLiabilities",
		"LiabilitiesIFRS",
	},
	models.FieldNetAssets: {
		"NetAssets",
		"TotalEquity",
		"NetAssetsSummaryOfBusinessResults",
		"EquityIFRS",
	},
	models.FieldShareholdersEquity: {
		"ShareholdersEquity",
		"EquityAttributableToOwnersOfParent",
		"EquityAttributableToOwnersOfParentIFRS",
		"EquityAttributableToOwnersOfParentIFRSSummaryOfBusinessResults",
		"EquityAttributableToOwnersOfParentUSGAAPSummaryOfBusinessResults",
	},
	models.FieldOperatingCashFlow: {
		"NetCashProvidedByUsedInOperatingActivities",
		"CashFlowsFromOperatingActivities",
		"NetCashProvidedByUsedInOperatingActivitiesSummaryOfBusinessResults",
		"NetCashProvidedByUsedInOperatingActivitiesIFRS",
		"CashFlowsFromUsedInOperatingActivitiesIFRSSummaryOfBusinessResults",
	},
	models.FieldInvestingCashFlow: {
		"NetCashProvidedByUsedInInvestingActivities",
		"CashFlowsFromInvestingActivities",
		"NetCashProvidedByUsedInInvestingActivitiesSummaryOfBusinessResults",
		"NetCashProvidedByUsedInInvestingActivitiesIFRS",
		"CashFlowsFromUsedInInvestingActivitiesIFRSSummaryOfBusinessResults",
	},
	models.FieldFinancingCashFlow: {
		"NetCashProvidedByUsedInFinancingActivities",
		"CashFlowsFromFinancingActivities",
		"NetCashProvidedByUsedInFinancingActivitiesSummaryOfBusinessResults",
		"NetCashProvidedByUsedInFinancingActivitiesIFRS",
		"CashFlowsFromUsedInFinancingActivitiesIFRSSummaryOfBusinessResults",
	},
	models.FieldEPS: {
		"BasicEarningsPerShare",
		"BasicEarningsLossPerShare",
		"EarningsPerShare",
		"BasicEarningsLossPerShareSummaryOfBusinessResults",
		"BasicEarningsLossPerShareIFRS",
		"BasicEarningsLossPerShareIFRSSummaryOfBusinessResults",
	},
	models.FieldBPS: {
		"NetAssetsPerShare",
		"BookValuePerShare",
		"NetAssetsPerShareSummaryOfBusinessResults",
		"EquityAttributableToOwnersOfParentPerShareIFRSSummaryOfBusinessResults",
	},
	models.FieldDPS: {
		"DividendPaidPerShareSummaryOfBusinessResults",
		"DividendsPerShare",
		"DividendPerShare",
	},
	models.FieldROE: {
		"RateOfReturnOnEquity",
		"ReturnOnEquity",
		"RateOfReturnOnEquitySummaryOfBusinessResults",
		"RateOfReturnOnEquityIFRSSummaryOfBusinessResults",
	},
	models.FieldROA: {
		"RateOfReturnOnAssets",
		"ReturnOnAssets",
	},
}

// fractionRatios are reported as plain fractions (0.115 for 11.5%). ROE and
// ROA are held in percent, so these are scaled on the way in.
var fractionRatios = map[string]bool{
	"RateOfReturnOnEquitySummaryOfBusinessResults":     true,
	"RateOfReturnOnEquityIFRSSummaryOfBusinessResults": true,
}

// namespaceFamilies are the taxonomies searched before falling back to a bare
// local-name match. URIs are versioned by date, so only the trailing segment is compared.
var namespaceFamilies = []struct {
	prefix string
	match  func(uri string) bool
}{
	{"jppfs_cor", suffixMatcher("/jppfs_cor")},
	{"jpcrp_cor", suffixMatcher("/jpcrp_cor")},
	{"jpigp_cor", suffixMatcher("/jpigp_cor")},
	{"ifrs-full", suffixMatcher("/ifrs-full")},
	{"us-gaap", func(uri string) bool { return strings.Contains(uri, "fasb.org/us-gaap") }},
}

func suffixMatcher(suffix string) func(string) bool {
	return func(uri string) bool {
		return strings.HasSuffix(uri, suffix)
	}
}

// inFamily reports whether a resolved namespace belongs to the family at index i.
// An undeclared prefix is left in Name.Space by encoding/xml, so the bare prefix also counts.
func inFamily(i int, space string) bool {
	fam := namespaceFamilies[i]
	return space == fam.prefix || fam.match(space)
}
