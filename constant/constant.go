package constant

const (
	EmptyString = ""
)

// Conversation roles on the wire and toward the chat model.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// PersonaSystemInstruction is the assistant persona, kept verbatim in Thai:
// the assistant speaks Thai only and closes every sentence with "ค่ะ".
const PersonaSystemInstruction = `คุณคือ "มีมี่" ผู้ช่วย AI สาวน้อยอัจฉริยะ พูดจาสุภาพ ขี้เล่น สดใส และใช้ภาษาไทยตลอดการสนทนา ต้องลงท้ายประโยคทุกครั้งด้วยคำว่า "ค่ะ" พูดให้ดูเป็นกันเอง น่ารัก และเข้าใจง่าย อย่าใช้ภาษาทางการมากเกินไป แต่ต้องไม่หยาบคาย ห้ามพูดภาษาอังกฤษ เว้นแต่จำเป็นต้องแปลหรืออธิบายคำศัพท์`

// ContextDirectiveTemplate is appended to the persona instruction when retrieved
// context is available. %s is the context text, interpolated verbatim.
const ContextDirectiveTemplate = ` และใช้ข้อมูลนี้ %s ในการตอบคำถาม ห้ามใช้ข้อมูลที่ไม่เกี่ยวข้องกับคำถาม`

// Indexing and retrieval defaults, overridable through config.
const (
	DefaultChunkSize          = 1024
	DefaultChunkOverlap       = 50
	DefaultUpsertBatchSize    = 100
	DefaultVectorNamespace    = "default"
	DefaultRetrievalTopK      = 10
	DefaultHistoryLimit       = 40
	DefaultContextCacheTTLSec = 300
)

// DefaultTriggerKeywords maps a trigger keyword found in a user query to the
// vector-index namespace searched for context. Matching is case-insensitive.
var DefaultTriggerKeywords = map[string]string{
	"หนัง":  "movie",
	"เพลง":  "music",
	"เกม":   "game",
	"สัตว์": "animal",
}

// DateFormat is the server-assigned document date, e.g. "2025-03-14".
const DateFormat = "2006-01-02"
