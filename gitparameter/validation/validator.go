package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/pola/git-parameter-plugin/pkg/apis/gitparameter/v1alpha1"
)

// State is the stage a submitted value has reached
type State string

const (
	StateReceived  State = "Received"
	StateValidated State = "Validated"
	StateAccepted  State = "Accepted"
	StateRejected  State = "Rejected"
)

// Submission tracks one submitted value through validation. Rejected and Accepted are terminal.
type Submission struct {
	State State
	Name  string
	Raw   string
	Value *v1alpha1.AcceptedValue
	Err   error
}

func (s *Submission) reject(err error) *Submission {
	s.State = StateRejected
	s.Err = err
	log.WithField("parameter", s.Name).Debugf("submission rejected: %v", err)
	return s
}

func (s *Submission) accept() *Submission {
	s.State = StateAccepted
	s.Value = &v1alpha1.AcceptedValue{Name: s.Name, Value: s.Raw}
	return s
}

// Result returns the accepted value or the reason the submission was rejected
func (s *Submission) Result() (*v1alpha1.AcceptedValue, error) {
	switch s.State {
	case StateAccepted:
		return s.Value, nil
	case StateRejected:
		return nil, s.Err
	}
	return nil, fmt.Errorf("submission of '%s' is still %s", s.Name, s.State)
}

// DefaultValueFunc returns the value used when a submission carries none
type DefaultValueFunc func() v1alpha1.AcceptedValue

// Validator turns submitted values of one parameter into accepted values
type Validator struct {
	def          v1alpha1.GitParameterDefinition
	defaultValue DefaultValueFunc
}

// NewValidator returns a validator for def. When defaultValue is nil the configured default is used.
func NewValidator(def v1alpha1.GitParameterDefinition, defaultValue DefaultValueFunc) *Validator {
	if defaultValue == nil {
		defaultValue = func() v1alpha1.AcceptedValue {
			return v1alpha1.AcceptedValue{Name: def.Name, Value: def.DefaultValue}
		}
	}
	return &Validator{def: def, defaultValue: defaultValue}
}

// Submit runs a present value through Received, Validated and finally Accepted or Rejected
func (v *Validator) Submit(raw string) *Submission {
	s := &Submission{State: StateReceived, Name: v.def.Name, Raw: raw}
	if v.def.Required && strings.TrimSpace(raw) == "" {
		return s.reject(&RequiredValueMissingError{Name: v.def.Name})
	}
	s.State = StateValidated
	return s.accept()
}

func (v *Validator) submitDefault() *Submission {
	value := v.defaultValue()
	return &Submission{State: StateAccepted, Name: v.def.Name, Raw: value.Value, Value: &value}
}

// submitDefaultChecked runs the default parameter value through the required check
func (v *Validator) submitDefaultChecked() *Submission {
	return v.Submit(v.defaultValue().Value)
}

// CreateValueFromForm handles interactive form input. Only the first value counts; no value at all
// submits the default parameter value, which a required parameter still rejects when blank.
func (v *Validator) CreateValueFromForm(values []string) (*v1alpha1.AcceptedValue, error) {
	if len(values) == 0 {
		return v.submitDefaultChecked().Result()
	}
	return v.Submit(values[0]).Result()
}

// Payload is the structured form of a submitted value
type Payload struct {
	Name  string  `json:"name"`
	Value *string `json:"value,omitempty"`
}

// CreateValueFromPayload handles a JSON payload of the form {"name": "...", "value": "..."}. A payload
// without a name is taken as addressed to this parameter; one without a value submits the default.
func (v *Validator) CreateValueFromPayload(data []byte) (*v1alpha1.AcceptedValue, error) {
	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		s := &Submission{State: StateReceived, Name: v.def.Name}
		return s.reject(fmt.Errorf("invalid payload for parameter '%s': %w", v.def.Name, err)).Result()
	}
	if payload.Name != "" && payload.Name != v.def.Name {
		s := &Submission{State: StateReceived, Name: v.def.Name}
		return s.reject(&NameMismatchError{Expected: v.def.Name, Actual: payload.Name}).Result()
	}
	if payload.Value == nil {
		return v.submitDefaultChecked().Result()
	}
	return v.Submit(*payload.Value).Result()
}

// CreateValueFromInvocation handles a direct invocation. A nil value yields the default parameter
// value without validation.
func (v *Validator) CreateValueFromInvocation(value *string) (*v1alpha1.AcceptedValue, error) {
	if value == nil {
		return v.submitDefault().Result()
	}
	return v.Submit(*value).Result()
}
