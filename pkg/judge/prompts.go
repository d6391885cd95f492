package judge

import "fmt"

// comparisonSystemPrompt instructs the judge model to rate two candidate
// responses to the same query independently, each on a 1-10 scale.
func comparisonSystemPrompt() string {
	return `You are a helpful assistant. You will receive a query and two candidate responses to it, labeled Response A and Response B. Please act as an impartial judge and rate how well each response answers the query, strictly on its own merits and independent of the other.

Rate each response on a scale from 1 to 10. A rating of 1 indicates a response that fails to address the query. A rating of 10 indicates a response that fully and correctly addresses the query.

You need to output exactly in the following format, on two separate lines:
Response A rating: [[rating]]
Response B rating: [[rating]]
where each rating is a number from 1 to 10, e.g. "Response A rating: [[7]]".

Make sure to follow this format strictly!`
}

// comparisonPrompt formats the query and the two candidate responses for
// a single judge call.
func comparisonPrompt(query, textA, textB string) string {
	return fmt.Sprintf("[QUERY]: %s\n[RESPONSE A]: %s\n[RESPONSE B]: %s", query, textA, textB)
}
