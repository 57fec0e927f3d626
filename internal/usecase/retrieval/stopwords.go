package retrieval

// stopWords are common function words and generic request words that carry no
// retrieval signal.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "can": {}, "had": {}, "her": {}, "was": {},
	"one": {}, "our": {}, "out": {}, "has": {}, "have": {}, "been": {},
	"were": {}, "they": {}, "this": {}, "that": {}, "with": {}, "from": {},
	"about": {}, "into": {}, "some": {}, "find": {}, "show": {},
	"looking": {}, "want": {}, "need": {}, "please": {}, "thanks": {},
	"help": {}, "something": {}, "anything": {}, "related": {},
	"links": {}, "resources": {},
}
