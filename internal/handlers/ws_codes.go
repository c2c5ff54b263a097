package handlers

// Custom WebSocket close codes. These give clients a more specific
// closure reason than the standard set.
const (
	BadSubprotocolError = 3000 // Client connected with an unsupported subprotocol.
	ServerShutdownError = 3001 // Server is shutting down.
)
