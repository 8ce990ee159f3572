package service

import "math"

// FlowStep es un paso de un asistente de varios pasos.
type FlowStep struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Progress int    `json:"progress"`
}

// Flow es una maquina de estados lineal sobre una secuencia de pasos precalculada.
type Flow struct {
	steps   []FlowStep
	current int
}

func newFlow(steps []FlowStep) *Flow {
	n := len(steps)
	out := make([]FlowStep, n)
	for i, s := range steps {
		s.Progress = int(math.Round(float64(i+1) / float64(n) * 100))
		out[i] = s
	}
	return &Flow{steps: out}
}

// Steps devuelve una copia de la secuencia.
func (f *Flow) Steps() []FlowStep {
	out := make([]FlowStep, len(f.steps))
	copy(out, f.steps)
	return out
}

func (f *Flow) Len() int { return len(f.steps) }

func (f *Flow) index() int { return f.current }

func (f *Flow) Current() FlowStep { return f.steps[f.current] }

// Next avanza un paso; devuelve false si ya estaba en el ultimo.
func (f *Flow) Next() bool {
	if f.current >= len(f.steps)-1 {
		return false
	}
	f.current++
	return true
}

// back retrocede un paso; devuelve false si ya estaba en el primero.
func (f *Flow) back() bool {
	if f.current == 0 {
		return false
	}
	f.current--
	return true
}

func (f *Flow) isLast() bool { return f.current == len(f.steps)-1 }

// MoveTo situa el flujo en el paso indicado; devuelve false si no existe.
func (f *Flow) MoveTo(key string) bool {
	i := f.IndexOf(key)
	if i < 0 {
		return false
	}
	f.current = i
	return true
}

// IndexOf devuelve la posición del paso o -1.
func (f *Flow) IndexOf(key string) int {
	for i, s := range f.steps {
		if s.Key == key {
			return i
		}
	}
	return -1
}

const (
	StepErasmusQuestion  = "erasmus_question"
	StepPersonalInfo     = "personal_info"
	StepAcademicInfo     = "academic_info"
	StepErasmusDetails   = "erasmus_details"
	StepLifestyle        = "lifestyle"
	StepInterests        = "interests"
	StepHousingPrefs     = "housing_preferences"
	StepIdealRoommate    = "ideal_roommate"
	StepLifestyleCompat  = "lifestyle_compatibility"
	StepPracticalInfo    = "practical_info"
	StepIntroduction     = "introduction"
	StepContactPrefs     = "contact_preferences"
	StepTerms            = "terms"
	StepLocationAndType  = "location_and_type"
	StepPhotos           = "photos"
	StepDetails          = "details"
	StepRoomsAndPricing  = "rooms_and_pricing"
	StepTitleDescription = "title_and_description"
)

// NewStudentOnboardingFlow construye la secuencia del onboarding de estudiantes.
// El paso de detalles Erasmus solo existe si isErasmus es true.
func NewStudentOnboardingFlow(isErasmus bool) *Flow {
	steps := []FlowStep{
		{Key: StepErasmusQuestion, Title: "¿Eres estudiante Erasmus?"},
		{Key: StepPersonalInfo, Title: "Información personal"},
		{Key: StepAcademicInfo, Title: "Información académica"},
	}
	if isErasmus {
		steps = append(steps, FlowStep{Key: StepErasmusDetails, Title: "Detalles Erasmus"})
	}
	steps = append(steps,
		FlowStep{Key: StepLifestyle, Title: "Tu estilo de vida"},
		FlowStep{Key: StepInterests, Title: "Intereses y hobbies"},
		FlowStep{Key: StepHousingPrefs, Title: "Preferencias de alojamiento"},
		FlowStep{Key: StepIdealRoommate, Title: "Compañero/a ideal"},
		FlowStep{Key: StepLifestyleCompat, Title: "Compatibilidad de estilo de vida"},
		FlowStep{Key: StepPracticalInfo, Title: "Información práctica"},
		FlowStep{Key: StepIntroduction, Title: "Preséntate"},
		FlowStep{Key: StepContactPrefs, Title: "Preferencias de contacto"},
		FlowStep{Key: StepTerms, Title: "¡Ya casi está!"},
	)
	return newFlow(steps)
}

// NewListingWizardFlow construye la secuencia del asistente de publicación.
func NewListingWizardFlow() *Flow {
	return newFlow([]FlowStep{
		{Key: StepLocationAndType, Title: "Ubicación y tipo"},
		{Key: StepPhotos, Title: "Fotos"},
		{Key: StepDetails, Title: "Detalles"},
		{Key: StepRoomsAndPricing, Title: "Habitaciones y precios"},
		{Key: StepTitleDescription, Title: "Título y descripción"},
	})
}
