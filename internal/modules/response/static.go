// README: Fixed replies for greetings, small talk, and unmatched questions.
package response

import "rideinsight/internal/modules/intent"

const greetingReply = "Hi there! I can answer questions about Austin group rideshare trips. " +
	"Ask me about a location, the busiest hours, or group sizes. " +
	"For example: 'Tell me about West Campus' or 'What are the peak hours?'"

const fallbackReply = "I'm not sure I understood that question perfectly. Here's what I can help you with:\n\n" +
	"<strong>Location Questions:</strong>\n" +
	"• 'How many groups went to [location]?'\n" +
	"• 'Tell me about [location]'\n" +
	"• 'Top pickup/drop-off spots'\n\n" +
	"<strong>Time Questions:</strong>\n" +
	"• 'When do large groups typically ride?'\n" +
	"• 'Peak hours for groups of 6+'\n" +
	"• 'Busiest times'\n\n" +
	"<strong>Group Size Questions:</strong>\n" +
	"• 'How many trips had 10+ passengers?'\n" +
	"• 'Large group patterns'\n" +
	"• 'Average group size'\n\n" +
	"Would you like to try asking one of these types of questions?"

// ErrorReply is returned when a question could not be answered at all.
const ErrorReply = "I'm having trouble understanding that question. " +
	"Try asking about specific locations, times, or group sizes. " +
	"For example: 'How many groups went to The Aquarium on 6th?' or " +
	"'What are the peak hours for large groups?'"

var casualReplies = map[intent.CasualTopic]string{
	intent.CasualThanks:       "You're welcome! Ask me anything else about Austin trips whenever you like.",
	intent.CasualWellbeing:    "Doing great, thanks for asking! I'm ready to dig into the trip data. What would you like to know?",
	intent.CasualFarewell:     "Goodbye! Come back any time you want to explore more trip patterns.",
	intent.CasualCapabilities: "I answer questions about Austin group rideshare trips: popular pickup and drop-off spots, peak hours, group sizes, and per-location stats. Try 'What are the top pickup spots?'",
	intent.CasualAcknowledge:  "Great! Let me know what else you'd like to explore.",
}

func casualReply(topic intent.CasualTopic) string {
	if r, ok := casualReplies[topic]; ok {
		return r
	}
	return casualReplies[intent.CasualAcknowledge]
}
