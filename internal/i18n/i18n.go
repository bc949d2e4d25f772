// Package i18n holds the user-visible string tables.
package i18n

// DefaultTag is the language used when nothing else is configured.
const DefaultTag = "en"

// Locale bundles every user-visible string for one language.
type Locale struct {
	Tag string

	// System prompts
	ChatPrompt string
	DocPrompt  string

	// Conversation lifecycle
	Greeting           string
	DocumentModeNotice string
	NoDocuments        string
	DocumentError      string

	// Generic errors
	ErrorOccurred   string
	FallbackMessage string

	// Provider error classes
	ErrContentFilter string
	ErrFileTooLarge  string
	ErrRateLimit     string
	ErrAuth          string
	ErrContextLength string
	ErrConnection    string

	// Tools
	ImageGenerationError string
	ImageGeneratedNotice string // format: effective prompt
	SearchResultsLabel   string // format: original query
	SourcesLabel         string
	SearchApology        string // format: error detail
}

var english = Locale{
	Tag: "en",

	ChatPrompt: `You are a helpful AI assistant. Answer the user's questions.
You have access to a number of different tools:
You can help the user analyze images they upload.
You can also generate images if the user asks you to 'create an image of...' or 'generate an image of...'.
You can search the web for current information if the user asks you to 'search for...' or if you need up-to-date information to answer a question.`,
	DocPrompt: `You are a helpful AI assistant that helps the user with their questions regarding the context you have received. The context is one or more documents.
Base all your answers on the context and do not make anything up. Help the user answer questions, summarize, and other tasks.
If you don't know the answer, respond that you don't know the answer.`,

	Greeting:           "Hi! How can I help you?",
	DocumentModeNotice: "You will now only be able to chat with your document. If you want to exit this mode, start a new chat.",
	NoDocuments:        "I don't have any documents to reference. Please upload a document first.",
	DocumentError:      "An error occurred while processing the document.",

	ErrorOccurred:   "Error occurred",
	FallbackMessage: "I'm unable to process the request at this time. Is there anything else I can help with?",

	ErrContentFilter: "The request couldn't be processed due to content restrictions.",
	ErrFileTooLarge:  "The image is too large. Please try with a smaller image.",
	ErrRateLimit:     "Rate limit exceeded. Please try again in a moment.",
	ErrAuth:          "API authentication error. Please check API key configuration.",
	ErrContextLength: "The conversation is too long. Please clear the chat and start a new one.",
	ErrConnection:    "Connection to the model provider failed. Please try again.",

	ImageGenerationError: "An error occurred while generating the image.",
	ImageGeneratedNotice: "I generated an image based on your request: %q",
	SearchResultsLabel:   "**Search Results:** '%s'",
	SourcesLabel:         "**Sources:**",
	SearchApology:        "I encountered an error while trying to search the web: %s. Please try a different query or try again later.",
}

var swedish = Locale{
	Tag: "sv",

	ChatPrompt: `Du är en hjälpsam AI-assistent. Svara på användarens frågor.
Du har tillgång till ett antal olika verktyg:
- Du kan hjälpa användaren att analysera bilder genom att de laddar upp dem.
- Du kan generera bilder om användaren ber dig 'skapa en bild av...' eller 'generera en bild av...'
- Du kan söka på webben för att hitta aktuell information om användaren ber dig att 'söka efter...' eller om du behöver aktuell information för att besvara en fråga.`,
	DocPrompt: `Du är en hjälpsam AI-assistent som hjälper användaren med sina frågor gällande den kontext du fått. Kontexten är ett eller flera dokument.
Basera alla dina svar på kontexten och hitta inte på något. Hjälp användaren svara på frågor, summera och annat.
Om du inte vet svaret, svarar du att du inte vet svaret.`,

	Greeting:           "Hej! Hur kan jag hjälpa dig?",
	DocumentModeNotice: "Du kommer nu bara kunna chatta med ditt dokument. Om du vill hoppa ur det läget, starta då en ny chatt.",
	NoDocuments:        "Jag har inga dokument att utgå ifrån. Ladda upp ett dokument först.",
	DocumentError:      "Det uppstod ett fel vid bearbetning av dokumentet.",

	ErrorOccurred:   "Ett fel inträffade",
	FallbackMessage: "Jag kan inte hantera förfrågan just nu. Finns det något annat jag kan hjälpa till med?",

	ErrContentFilter: "Förfrågan kunde inte behandlas på grund av innehållsbegränsningar.",
	ErrFileTooLarge:  "Bilden är för stor. Försök med en mindre bild.",
	ErrRateLimit:     "För många förfrågningar. Försök igen om en stund.",
	ErrAuth:          "Autentiseringsfel mot API:et. Kontrollera API-nyckelns konfiguration.",
	ErrContextLength: "Konversationen är för lång. Rensa chatten och börja en ny.",
	ErrConnection:    "Anslutningen till modelleverantören misslyckades. Försök igen.",

	ImageGenerationError: "Det uppstod ett fel vid generering av bilden.",
	ImageGeneratedNotice: "Jag skapade en bild utifrån din förfrågan: %q",
	SearchResultsLabel:   "**Sökresultat:** '%s'",
	SourcesLabel:         "**Källor:**",
	SearchApology:        "Jag stötte på ett fel när jag försökte söka på webben: %s. Vänligen försök med en annan sökning eller försök igen senare.",
}

var locales = map[string]Locale{
	"en": english,
	"sv": swedish,
}

// Lookup returns the locale for tag, falling back to English.
func Lookup(tag string) Locale {
	if l, ok := locales[tag]; ok {
		return l
	}
	return english
}

// Tags returns the supported language tags.
func Tags() []string {
	return []string{"en", "sv"}
}

// SearchLanguageHint returns the query suffix that asks a search engine to
// answer in the locale's language. Empty for the default language.
func (l Locale) SearchLanguageHint() string {
	switch l.Tag {
	case "sv":
		return " (answer in Swedish)"
	default:
		return ""
	}
}
