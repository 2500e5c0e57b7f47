package classification

import (
	"encoding/json"
	"fmt"
)

// SystemInstruction defines independent vs chain and fixes the answer format.
const SystemInstruction = `You are an expert at identifying small businesses vs chains/franchises.

Given a list of places found for a search, identify which ones are likely SMALL, LOCAL, INDEPENDENT businesses (not chains or franchises). Consider:
- Local, independent establishments are small businesses
- Chain restaurants, franchises, big box stores are NOT small businesses
- Family-owned shops, local cafes, independent stores ARE small businesses
- Well-known national/international brands are NOT small businesses

Return ONLY a JSON array of the ids (just the numbers) of places that are small businesses.
Return format: [0, 2, 5]
If none qualify, return []. Do not add any other text.`

// UserPrompt renders the query and the indexed candidates.
func (r Request) UserPrompt() (string, error) {
	data, err := json.MarshalIndent(r.Items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode places: %w", err)
	}
	return fmt.Sprintf("Search: %q\n\nPlaces:\n%s", r.Query, data), nil
}
