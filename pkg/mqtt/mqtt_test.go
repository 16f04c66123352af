package mqtt

import "testing"

func TestTopicMatch(t *testing.T) {
	cases := []struct {
		pattern string
		topic   string
		want    bool
	}{
		{"pancy/cases/created", "pancy/cases/created", true},
		{"pancy/cases/created", "pancy/cases/amended", false},
		{"pancy/cases/+", "pancy/cases/created", true},
		{"pancy/cases/+", "pancy/cases/created/extra", false},
		{"pancy/#", "pancy/cases/created", true},
		{"pancy/#", "pancy", true},
		{"#", "cualquier/cosa", true},
		{"pancy/+/created", "pancy/cases/created", true},
		{"pancy/+/created", "pancy/cases/amended", false},
		{"pancy/cases", "pancy/cases/created", false},
	}
	for _, tc := range cases {
		if got := topicMatch(tc.pattern, tc.topic); got != tc.want {
			t.Errorf("topicMatch(%q, %q) = %v, want %v", tc.pattern, tc.topic, got, tc.want)
		}
	}
}
