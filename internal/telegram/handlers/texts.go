package handlers

const (
	MsgHelp = `Send me your practice materials as documents or photos: .txt, .md, .csv, .rtf, .pdf, .png, .jpg, .jpeg.

/analyze - analyze the buffered files
/sheet - turn the last analysis into a reference sheet
/clear - drop the buffered files
/help - show this message`

	MsgSendFiles      = "Send files as documents or photos, then run /analyze."
	MsgUnknownCommand = "Unknown command. Use /help."
	MsgNoFiles        = "No files buffered yet. Send documents or photos first."
	MsgBufferFull     = "Buffer is full (%d files). Run /analyze or /clear."
	MsgFileSaved      = "Saved %s. Files buffered: %d."
	MsgFileTooBig     = "%s is larger than the 20MB Telegram download limit."
	MsgCleared        = "Dropped %d buffered file(s)."
	MsgNothingToClear = "Nothing to clear."
	MsgNoAnalysis     = "No analysis yet. Run /analyze first."
	MsgAnalysisFooter = "Model: %s. Files analyzed: %d."

	ErrGeneric    = "Something went wrong. Try again."
	ErrTimeout    = "The request took too long. Try again later."
	ErrNetwork    = "Could not reach the service. Try again later."
	ErrDownload   = "Could not download %s. Send it again."
	ErrUpstream   = "The analysis service failed: %s"
	ErrLocalModel = "The reference sheet model is unavailable. Try again later."
	ErrEmptySheet = "The reference sheet model returned nothing. Try again."
)
