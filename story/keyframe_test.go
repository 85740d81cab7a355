package story

import "testing"

func TestPoseAt(t *testing.T) {
	kfs := []Keyframe{
		{AtMS: 100, X: 0, Y: 0, Scale: 1},
		{AtMS: 300, X: 100, Y: 50, Scale: 2},
	}

	tests := []struct {
		name string
		atMS int
		want Pose
	}{
		{"clamps before first", 0, Pose{X: 0, Y: 0, Scale: 1}},
		{"exactly first", 100, Pose{X: 0, Y: 0, Scale: 1}},
		{"midpoint", 200, Pose{X: 50, Y: 25, Scale: 1.5}},
		{"quarter", 150, Pose{X: 25, Y: 12.5, Scale: 1.25}},
		{"exactly last", 300, Pose{X: 100, Y: 50, Scale: 2}},
		{"clamps after last", 1000, Pose{X: 100, Y: 50, Scale: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := poseAt(kfs, tt.atMS); got != tt.want {
				t.Errorf("poseAt(%d) = %+v, want %+v", tt.atMS, got, tt.want)
			}
		})
	}
}

func TestPoseAtSingleKeyframe(t *testing.T) {
	kfs := []Keyframe{{AtMS: 50, X: 7, Y: 8, Scale: 1}}
	for _, at := range []int{0, 50, 500} {
		if got := poseAt(kfs, at); got != (Pose{X: 7, Y: 8, Scale: 1}) {
			t.Errorf("poseAt(%d) = %+v", at, got)
		}
	}
}

func TestPoseAtNoKeyframes(t *testing.T) {
	if got := poseAt(nil, 100); got != (Pose{Scale: 1}) {
		t.Errorf("poseAt(nil) = %+v", got)
	}
}

func TestPoseAtThreeSegments(t *testing.T) {
	kfs := []Keyframe{
		{AtMS: 0, X: 0, Scale: 1},
		{AtMS: 100, X: 10, Scale: 1},
		{AtMS: 200, X: 110, Scale: 1},
	}
	// Interpolation picks the right segment, not the overall endpoints.
	if got := poseAt(kfs, 150); got.X != 60 {
		t.Errorf("poseAt(150).X = %v, want 60", got.X)
	}
}
