// Package transcribe converts recorded audio into text.
//
// The backend is chosen explicitly by configuration: "openai" posts the
// payload to an OpenAI-compatible transcriptions endpoint, "simulated" returns
// deterministic canned snippets for development without credentials. Ingestion
// depends only on the Service interface.
package transcribe
