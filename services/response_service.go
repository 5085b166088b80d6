package services

import (
	"fmt"
	"log"
	"math/rand"
	"sync"

	"github.com/StartUpFoundee/astral-guide-ai/config"
)

// Persona identifies an astrologer's speaking style. Greeting text is
// selected through a typed lookup table so a missing persona is caught in
// one place instead of scattered string comparisons.
type Persona int

const (
	PersonaVedic Persona = iota
	PersonaRelationship
	PersonaCareer
	PersonaSpiritual
	PersonaWealth
	PersonaVastu
)

// PersonaFromString maps the persona name used in the catalog/config to its
// enum value. Unknown names fall back to the vedic generalist.
func PersonaFromString(s string) Persona {
	switch s {
	case "relationship":
		return PersonaRelationship
	case "career":
		return PersonaCareer
	case "spiritual":
		return PersonaSpiritual
	case "wealth":
		return PersonaWealth
	case "vastu":
		return PersonaVastu
	case "vedic":
		return PersonaVedic
	default:
		log.Printf("WARN: [ResponseService] Unknown persona '%s', using vedic.", s)
		return PersonaVedic
	}
}

// greetingTemplates builds each persona's opening line. Every persona leads
// with the same namaste introduction the original client used; the trailing
// invitation is what varies.
var greetingTemplates = map[Persona]func(name, expertise string) string{
	PersonaVedic: func(name, expertise string) string {
		return fmt.Sprintf("Namaste! I'm %s. I specialize in %s. Please feel free to ask your questions about your future.", name, expertise)
	},
	PersonaRelationship: func(name, expertise string) string {
		return fmt.Sprintf("Namaste! I'm %s. I specialize in %s. Share what weighs on your heart and the stars will guide us.", name, expertise)
	},
	PersonaCareer: func(name, expertise string) string {
		return fmt.Sprintf("Namaste! I'm %s. I specialize in %s. Ask me about your professional path and I will consult your chart.", name, expertise)
	},
	PersonaSpiritual: func(name, expertise string) string {
		return fmt.Sprintf("Namaste! I'm %s. I specialize in %s. Ask freely; every question is a step on your journey.", name, expertise)
	},
	PersonaWealth: func(name, expertise string) string {
		return fmt.Sprintf("Namaste! I'm %s. I specialize in %s. Ask about your prosperity and we will see what the planets hold.", name, expertise)
	},
	PersonaVastu: func(name, expertise string) string {
		return fmt.Sprintf("Namaste! I'm %s. I specialize in %s. Tell me about your spaces and I will read their energies.", name, expertise)
	},
}

// readingPool is the canned set of astrological readings. One is drawn at
// random for every answered question.
var readingPool = []string{
	"Based on your birth chart, I see significant planetary alignments suggesting positive changes in your career path in the coming months. Saturn's position indicates a period of growth and stability.",
	"The current alignment of Venus in your chart reveals interesting patterns in your love life. This is a favorable time for deepening existing relationships or finding new connections if you're seeking a partner.",
	"Your financial stars show promising signs. Jupiter's influence suggests unexpected gains, possibly through investments or professional opportunities. Stay alert for these possibilities in the next few weeks.",
	"Mercury's position in your chart indicates a period of enhanced communication and intellectual clarity. This is an excellent time for important conversations or making decisions that require clear thinking.",
	"The current lunar phase connects strongly with your birth moon, suggesting this is a time of emotional renewal. Trust your intuition more than usual during this period.",
	"According to your astrological profile, your health energy looks stable, though Mars suggests you might benefit from increasing physical activity to balance mental stress.",
	"The stars indicate a time of personal transformation approaching. You may find yourself questioning old patterns and embracing new perspectives that better align with your true self.",
	"Your chart shows strong creative energy right now. If you've been considering starting a new project or hobby, the celestial alignments are supporting this initiative.",
	"The position of Pluto in relation to your sun sign suggests deep internal changes. This might manifest as a desire to transform aspects of your life that no longer serve your higher purpose.",
	"I see interesting travel configurations in your chart. The next six months may bring opportunities for journeys that expand your horizons, either physically or metaphorically through new learning.",
	"Family matters appear highlighted in your chart currently. Saturn's influence suggests a time for strengthening foundations and perhaps addressing any unresolved issues with loved ones.",
	"Your spiritual path shows interesting developments. Neptune's influence increases your intuition and connection to the divine. Pay attention to dreams and synchronicities in this period.",
}

// ResponseService produces the canned astrologer text: one greeting per
// persona and randomly drawn readings.
type ResponseService interface {
	Greeting(astrologer *config.Astrologer) string
	Reading() string
}

type responseService struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewResponseService creates a ResponseService drawing readings from the
// given generator. Tests pass a fixed seed. The service takes ownership of
// rng; it must not be shared with other components.
func NewResponseService(rng *rand.Rand) ResponseService {
	return &responseService{rng: rng}
}

// Greeting returns the persona-appropriate opening message for an astrologer.
func (s *responseService) Greeting(astrologer *config.Astrologer) string {
	persona := PersonaFromString(astrologer.Persona)
	tmpl, ok := greetingTemplates[persona]
	if !ok {
		tmpl = greetingTemplates[PersonaVedic]
	}
	return tmpl(astrologer.Name, astrologer.Expertise)
}

// Reading draws one canned reading from the pool.
func (s *responseService) Reading() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readingPool[s.rng.Intn(len(readingPool))]
}
