package disposition

// visibleTo narrows dispositions to those the caller holds an active
// assignment for. A pure read-time projection: nothing is mutated and no
// membership is cached across calls. Callers with Administrator or Ketua
// Tim roles bypass this entirely (see Service.List).
func visibleTo(all []Disposition, assignedIDs []string) []Disposition {
	member := make(map[string]struct{}, len(assignedIDs))
	for _, id := range assignedIDs {
		member[id] = struct{}{}
	}
	out := make([]Disposition, 0, len(all))
	for _, d := range all {
		if _, ok := member[d.ID]; ok {
			out = append(out, d)
		}
	}
	return out
}
