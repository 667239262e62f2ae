// Package scope implements the scoping phase of the research workflow: decide
// whether the user's request needs clarification, and once it does not,
// condense the conversation into a research brief that seeds the downstream
// research pipeline.
package scope

import "strings"

// Role tags the author of a conversation message.
type Role string

const (
	RoleHuman Role = "human"
	RoleAI    Role = "ai"
)

// Message is one role-tagged entry in a conversation transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Human builds a user-authored message.
func Human(content string) Message { return Message{Role: RoleHuman, Content: content} }

// AI builds an assistant-authored message.
func AI(content string) Message { return Message{Role: RoleAI, Content: content} }

// State is the conversation record one workflow invocation owns exclusively.
// Message and note sequences only ever grow; ResearchBrief is written at most
// once, after clarification has been ruled out. SupervisorMessages, RawNotes,
// Notes and FinalReport exist for the downstream research subsystem; scoping
// only seeds SupervisorMessages.
type State struct {
	Messages           []Message `json:"messages"`
	ResearchBrief      string    `json:"research_brief,omitempty"`
	SupervisorMessages []Message `json:"supervisor_messages,omitempty"`
	RawNotes           []string  `json:"raw_notes,omitempty"`
	Notes              []string  `json:"notes,omitempty"`
	FinalReport        string    `json:"final_report,omitempty"`
}

// Update is a merge-style delta a node hands back instead of mutating State
// directly. Sequence fields append to their State counterparts; scalar fields
// overwrite only when non-empty, so the zero value leaves State untouched.
type Update struct {
	Messages           []Message
	ResearchBrief      string
	SupervisorMessages []Message
	RawNotes           []string
	Notes              []string
	FinalReport        string
}

// Apply merges the delta into s.
func (u Update) Apply(s *State) {
	s.Messages = append(s.Messages, u.Messages...)
	s.SupervisorMessages = append(s.SupervisorMessages, u.SupervisorMessages...)
	s.RawNotes = append(s.RawNotes, u.RawNotes...)
	s.Notes = append(s.Notes, u.Notes...)
	if u.ResearchBrief != "" {
		s.ResearchBrief = u.ResearchBrief
	}
	if u.FinalReport != "" {
		s.FinalReport = u.FinalReport
	}
}

// Clone returns a deep copy so callers can hand the state onward without
// aliasing the original's slices.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.Messages = append([]Message(nil), s.Messages...)
	out.SupervisorMessages = append([]Message(nil), s.SupervisorMessages...)
	out.RawNotes = append([]string(nil), s.RawNotes...)
	out.Notes = append([]string(nil), s.Notes...)
	return &out
}

// BufferString flattens a transcript into the "Human:"/"AI:" prefixed lines
// the prompt templates embed.
func BufferString(msgs []Message) string {
	var b strings.Builder
	for i, m := range msgs {
		if i > 0 {
			b.WriteByte('\n')
		}
		switch m.Role {
		case RoleHuman:
			b.WriteString("Human: ")
		case RoleAI:
			b.WriteString("AI: ")
		default:
			b.WriteString(string(m.Role))
			b.WriteString(": ")
		}
		b.WriteString(m.Content)
	}
	return b.String()
}
