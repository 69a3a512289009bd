package report

import (
	"encoding/json"
	"fmt"

	"github.com/zen-systems/ratewatch/pkg/quote"
)

func cotizationsPrompt(quotes []quote.Quote) string {
	return fmt.Sprintf(`Analyze the following USD exchange quotes for Argentina:

%s

Provide a detailed analysis covering:
1. What each quote type represents (official, blue, bolsa, and so on)
2. The differences between the quotes and what they mean
3. The factors driving each quote type
4. Implications for investors, companies and consumers
5. Recommendations per quote type`, mustJSON(quotes))
}

func gapsPrompt(official *quote.Quote, gaps []Gap) string {
	officialSell := "N/A"
	if official != nil {
		officialSell = fmt.Sprintf("%.2f", official.Sell)
	}
	return fmt.Sprintf(`Analyze the exchange-rate gaps in Argentina given this data:

Official sell rate: %s
Computed gaps: %s

Provide:
1. An interpretation of the gaps
2. The factors producing these differences
3. The economic impact of the gaps
4. An outlook on convergence or divergence
5. Recommendations for different economic actors`, officialSell, mustJSON(gaps))
}

func trendsPrompt(spreads []Spread) string {
	return fmt.Sprintf(`Analyze the Argentine currency market trends given this data:

Prices and spreads: %s

Provide:
1. An analysis of the buy/sell spreads
2. Patterns across the quotes
3. Factors influencing the trends
4. A short- and medium-term outlook
5. Strategic recommendations`, mustJSON(spreads))
}

func summaryPrompt(quotes []quote.Quote) string {
	return fmt.Sprintf(`Write an executive summary of the USD quote analysis for Argentina:

Quote data:
%s

The summary must cover:
1. Key points of the Argentine currency market
2. Main conclusions about the quotes
3. Recommendations for different kinds of users
4. The outlook for the next period

Format: at most 3 paragraphs, plain direct language, focused on the USD quotes.`, mustJSON(quotes))
}

func mustJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(data)
}
