package whatsapp

import "testing"

func TestParseTwilioForm(t *testing.T) {
	msg := ParseTwilioForm(" whatsapp:+5215512345678 ", " Confirmo ")
	if msg.From != "+5215512345678" {
		t.Fatalf("unexpected from: %q", msg.From)
	}
	if msg.Text != "Confirmo" {
		t.Fatalf("unexpected text: %q", msg.Text)
	}
}

func TestParseEvolutionBodyConversation(t *testing.T) {
	body := []byte(`{"data":{"key":{"remoteJid":"525512345678@s.whatsapp.net"},"message":{"conversation":"cancelar"}}}`)
	msg, ok := ParseEvolutionBody(body)
	if !ok {
		t.Fatalf("expected parse to succeed")
	}
	if msg.From != "525512345678" || msg.Text != "cancelar" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestParseEvolutionBodyExtendedText(t *testing.T) {
	body := []byte(`{"data":{"key":{"remoteJid":"525512345678@s.whatsapp.net"},"message":{"extendedTextMessage":{"text":"puedo cambiar mi cita?"}}}}`)
	msg, ok := ParseEvolutionBody(body)
	if !ok {
		t.Fatalf("expected parse to succeed")
	}
	if msg.Text != "puedo cambiar mi cita?" {
		t.Fatalf("unexpected text: %q", msg.Text)
	}
}

func TestParseEvolutionBodyPollVote(t *testing.T) {
	body := []byte(`{"data":{"key":{"remoteJid":"525512345678@s.whatsapp.net"},"message":{"pollUpdateMessage":{"vote":{"selectedOptions":[{"name":"Confirmar"}]}}}}}`)
	msg, ok := ParseEvolutionBody(body)
	if !ok {
		t.Fatalf("expected parse to succeed")
	}
	if msg.Text != "Confirmar" {
		t.Fatalf("unexpected text: %q", msg.Text)
	}
}

func TestParseEvolutionBodyRejectsUnusable(t *testing.T) {
	cases := map[string]string{
		"not json":     `{{`,
		"no sender":    `{"data":{"message":{"conversation":"hola"}}}`,
		"no text":      `{"data":{"key":{"remoteJid":"525512345678@s.whatsapp.net"},"message":{}}}`,
		"empty object": `{}`,
	}
	for name, body := range cases {
		if _, ok := ParseEvolutionBody([]byte(body)); ok {
			t.Fatalf("%s: expected parse to fail", name)
		}
	}
}
