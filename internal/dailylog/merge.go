package dailylog

import "sort"

// Dedupe keeps one record per day id, preferring the most recently updated.
// The result is ordered newest day first.
func Dedupe(records []Record) []Record {
	byID := make(map[string]int, len(records))
	out := make([]Record, 0, len(records))
	for _, r := range records {
		id := r.ID
		if id == "" {
			id = FormatDateID(r.Date)
			r.ID = id
		}
		if i, ok := byID[id]; ok {
			if r.UpdatedAt.After(out[i].UpdatedAt) {
				out[i] = r
			}
			continue
		}
		byID[id] = len(out)
		out = append(out, r)
	}
	SortNewestFirst(out)
	return out
}

// SortNewestFirst orders records by day, latest first.
func SortNewestFirst(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
}

// Merge overlays device data onto base. Fields already present in base win;
// overlay only fills gaps. The merged source becomes mixed when both sides
// contributed data. base may be nil, in which case a copy of overlay is returned.
func Merge(base, overlay *Record) *Record {
	if base == nil {
		return overlay.Clone()
	}
	out := base.Clone()
	if overlay == nil {
		return out
	}

	filled := false
	fill := func(dst **int, src *int) {
		if *dst == nil && src != nil {
			v := *src
			*dst = &v
			filled = true
		}
	}

	if o := overlay.Sleep; o != nil {
		if out.Sleep == nil {
			out.Sleep = &Sleep{}
		}
		fill(&out.Sleep.TimeAsleep, o.TimeAsleep)
		fill(&out.Sleep.Quality, o.Quality)
	}
	if o := overlay.Exercise; o != nil {
		if out.Exercise == nil {
			out.Exercise = &Exercise{}
		}
		fill(&out.Exercise.Minutes, o.Minutes)
		fill(&out.Exercise.Steps, o.Steps)
		if out.Exercise.Kind == "" && o.Kind != "" {
			out.Exercise.Kind = o.Kind
			filled = true
		}
	}
	if o := overlay.Nutrition; o != nil {
		if out.Nutrition == nil {
			out.Nutrition = &Nutrition{}
		}
		fill(&out.Nutrition.Calories, o.Calories)
		fill(&out.Nutrition.ProteinG, o.ProteinG)
		fill(&out.Nutrition.WaterML, o.WaterML)
	}
	if o := overlay.Recovery; o != nil {
		if out.Recovery == nil {
			out.Recovery = &Recovery{}
		}
		fill(&out.Recovery.RestingHR, o.RestingHR)
		fill(&out.Recovery.HRV, o.HRV)
		fill(&out.Recovery.Soreness, o.Soreness)
	}
	if o := overlay.Mindset; o != nil {
		if out.Mindset == nil {
			out.Mindset = &Mindset{}
		}
		fill(&out.Mindset.Mood, o.Mood)
		fill(&out.Mindset.Stress, o.Stress)
		fill(&out.Mindset.Energy, o.Energy)
	}
	for k, v := range overlay.Habits {
		if _, ok := out.Habits[k]; !ok {
			out.SetHabit(k, v)
			filled = true
		}
	}
	out.Compact()

	if filled && out.Source != overlay.Source && base.hasData() {
		out.Source = SourceMixed
	} else if filled && !base.hasData() {
		out.Source = overlay.Source
	}
	return out
}

// hasData reports whether any measurement or habit was reported.
func (r *Record) hasData() bool {
	return r.Sleep != nil || r.Exercise != nil || r.Nutrition != nil ||
		r.Recovery != nil || r.Mindset != nil || len(r.Habits) > 0
}

// Compact drops groups left with no reported fields.
func (r *Record) Compact() {
	if s := r.Sleep; s != nil && s.TimeAsleep == nil && s.Quality == nil {
		r.Sleep = nil
	}
	if e := r.Exercise; e != nil && e.Minutes == nil && e.Steps == nil && e.Kind == "" {
		r.Exercise = nil
	}
	if n := r.Nutrition; n != nil && n.Calories == nil && n.ProteinG == nil && n.WaterML == nil {
		r.Nutrition = nil
	}
	if rc := r.Recovery; rc != nil && rc.RestingHR == nil && rc.HRV == nil && rc.Soreness == nil {
		r.Recovery = nil
	}
	if m := r.Mindset; m != nil && m.Mood == nil && m.Stress == nil && m.Energy == nil {
		r.Mindset = nil
	}
}
