// Package prediction implements the resolvers for the scenario simulator.
package prediction

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/threatinsight/portal-backend/graphql/session"
	"github.com/threatinsight/portal-backend/model"
)

// ResolveFormOptions returns the selectable values of the scenario form
func ResolveFormOptions(p graphql.ResolveParams) (interface{}, error) {
	s, err := session.From(p.Context)
	if err != nil {
		return nil, err
	}
	return s.Options, nil
}

// ResolvePredict validates the input scenario and runs the trained models on it
func ResolvePredict(p graphql.ResolveParams) (interface{}, error) {
	input, ok := p.Args["input"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: missing input", model.ErrInvalidScenario)
	}
	scenario := ScenarioFromInput(input)
	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	s, err := session.From(p.Context)
	if err != nil {
		return nil, err
	}
	return s.Predictor.Predict(scenario)
}

// ScenarioFromInput converts the coerced ScenarioInput argument.
func ScenarioFromInput(input map[string]interface{}) model.Scenario {
	str := func(k string) string {
		v, _ := input[k].(string)
		return v
	}
	var s model.Scenario
	s.Country = str("country")
	s.AttackSource = str("attack_source")
	s.VulnerabilityType = str("vulnerability_type")
	s.DefenseMechanism = str("defense_mechanism")
	if v, ok := input["year"].(int); ok {
		s.Year = v
	}
	switch v := input["affected_users"].(type) {
	case float64:
		s.AffectedUsers = int64(v)
	case int:
		s.AffectedUsers = int64(v)
	}
	switch v := input["resolution_hours"].(type) {
	case float64:
		s.ResolutionHours = v
	case int:
		s.ResolutionHours = float64(v)
	}
	return s
}
