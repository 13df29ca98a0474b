package ai

import (
	"encoding/json"
	"fmt"

	"concierge/internal/modules/catalog"
	"concierge/internal/modules/guest"
)

const stayLayout = "2006-01-02 15:04"

// schemaRequirements is shared by both recommendation modes. Images are
// resolved locally by the presentation layer, hence the explicit ban.
const schemaRequirements = `Requirements:
1. Return ONLY a JSON array of objects. Do not include any markdown formatting or extra text.
2. Each object must have keys: 'day', 'date', 'time', 'activity_name', 'price', 'description'.
3. Do NOT generate an image URL. Images are handled locally.`

// BuildFullList instructs the model to return every stay activity in schema form.
func BuildFullList(hotelName string, g *guest.Profile, stay []catalog.Entry) string {
	return fmt.Sprintf(`Act as Sarah, the hotel concierge at %s.
Guest Name: %s
Stay: %s to %s
Activities Available:
%s

Request: Provide the complete list of activities for their stay schedule.
%s
`,
		hotelName,
		g.LastName,
		g.CheckIn.Format(stayLayout), g.CheckOut.Format(stayLayout),
		asJSON(stay),
		schemaRequirements,
	)
}

// BuildPersonalized instructs the model to select a subset of the stay
// activities matching the guest's profile, group, and stated preference.
func BuildPersonalized(hotelName string, g *guest.Profile, stay []catalog.Entry, userText string) string {
	return fmt.Sprintf(`Act as Sarah, the dedicated and knowledgeable hotel concierge at %s.
Guest Profile: %s
Activities Available:
%s
Context: The guest asked for personalized recommendations and just replied: '%s'

Task: Carefully analyze the guest's profile (especially Age, Gender, and Family Members) and their request. Select the best matching activities from the available list.
%s
4. STRICTLY MATCH INTERESTS: Check the 'Tags' field of the activities. If the user asks for 'relax', look for 'Wellness', 'Spa', 'Relax'. If 'party', look for 'Social', 'Alcohol', 'Nightlife'.
5. STRICTLY ENFORCE CONSTRAINTS: Check 'Min_Age' and 'Target_Gender' against the Guest Profile. Do not recommend activities the guest (or their children) cannot attend.
6. If the user mentions a specific day or time, prioritize those.
`,
		hotelName,
		asJSON(g),
		asJSON(stay),
		userText,
		schemaRequirements,
	)
}

// BuildFollowUp frames open-ended questions after results have been shown.
// No structured output is expected on this path.
func BuildFollowUp(hotelName string) string {
	return fmt.Sprintf("Act as Sarah, hotel concierge at %s. The user is asking a follow-up question. Be helpful and brief.", hotelName)
}

func asJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
