package core

// Schemes that can execute code or smuggle payloads when opened.
var dangerousSchemes = []string{
	"javascript:", "data:", "vbscript:", "file:",
}

// Keywords commonly used by phishing links. Order matters: only the first
// match is reported.
var riskyKeywords = []string{
	"login", "verify", "reward", "free", "credential", "token", "update", "security", "confirm",
}

var sensitiveKeywords = []string{
	"password", "key", "secret", "wifi", "token", "auth",
}

var htmlMarkers = []string{
	"<script", "<html>",
}

// maxURLLength is the length above which a URL is reported as unusually long
const maxURLLength = 200

// warningSeparator joins warning lines raised for the same content
const warningSeparator = "\n"

const (
	msgDangerousScheme  = "DANGEROUS: Contains executable script or unsafe data scheme."
	msgUnsecuredHTTP    = "Unsecured Connection (HTTP). Traffic can be intercepted."
	msgSuspiciousFormat = "Suspicious keyword detected: '%s'."
	msgLongURL          = "URL is unusually long, which can hide malicious intent."
	msgWiFi             = "Connects to a Wi-Fi network. Verify the network name."
	msgTel              = "Initiates a phone call."
	msgSMS              = "Sends an SMS message. Check destination and body."

	reasonUnsafeScheme = "Input contains unsafe scheme (javascript, data, etc)."
	reasonHTMLTags     = "Input contains HTML or Script tags."
)
