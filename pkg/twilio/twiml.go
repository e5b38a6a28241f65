package twilio

import (
	"encoding/xml"
	"fmt"
)

// VoiceAlice is the Twilio voice all prompts are spoken with.
const VoiceAlice = "alice"

// Say represents a TwiML <Say> element.
type Say struct {
	XMLName xml.Name `xml:"Say"`
	Voice   string   `xml:"voice,attr,omitempty"`
	Text    string   `xml:",chardata"`
}

// Record represents a TwiML <Record> element.
type Record struct {
	XMLName                 xml.Name `xml:"Record"`
	Action                  string   `xml:"action,attr,omitempty"`
	Method                  string   `xml:"method,attr,omitempty"`
	MaxLength               int      `xml:"maxLength,attr,omitempty"`
	PlayBeep                bool     `xml:"playBeep,attr"`
	Trim                    string   `xml:"trim,attr,omitempty"`
	RecordingStatusCallback string   `xml:"recordingStatusCallback,attr,omitempty"`
}

// Hangup represents a TwiML <Hangup> element.
type Hangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

// RecordParams are the recording constraints for an accepted call.
type RecordParams struct {
	Action                  string // URL that receives the recording callback
	MaxLengthSeconds        int    // hard duration cap enforced by Twilio
	RecordingStatusCallback string // URL that receives recording status events
}

type acceptResponse struct {
	XMLName  xml.Name `xml:"Response"`
	Greeting Say
	Record   Record
	Thanks   Say
}

type rejectResponse struct {
	XMLName xml.Name `xml:"Response"`
	Say     Say
	Hangup  Hangup
}

// AcceptResponse builds the TwiML that greets the caller and records a
// message. Silence is trimmed and the beep marks the start of recording.
func AcceptResponse(greeting, thanks string, params RecordParams) string {
	response := &acceptResponse{
		Greeting: Say{Voice: VoiceAlice, Text: greeting},
		Record: Record{
			Action:                  params.Action,
			Method:                  "POST",
			MaxLength:               params.MaxLengthSeconds,
			PlayBeep:                true,
			Trim:                    "trim-silence",
			RecordingStatusCallback: params.RecordingStatusCallback,
		},
		Thanks: Say{Voice: VoiceAlice, Text: thanks},
	}
	return marshalTwiML(response, greeting)
}

// RejectResponse builds the TwiML that plays a rejection notice and hangs up.
func RejectResponse(message string) string {
	response := &rejectResponse{
		Say:    Say{Voice: VoiceAlice, Text: message},
		Hangup: Hangup{},
	}
	return marshalTwiML(response, message)
}

func marshalTwiML(response any, fallbackText string) string {
	xmlBytes, err := xml.MarshalIndent(response, "", "    ")
	if err != nil {
		return fmt.Sprintf(`<Response><Say>%s</Say><Hangup/></Response>`, fallbackText)
	}
	return xml.Header + string(xmlBytes)
}
