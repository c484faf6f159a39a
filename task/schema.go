package task

// Schema is a value snapshot of a task's column layout. Learners capture the
// schema at training time and compare it against prediction inputs.
type Schema struct {
	Covariates  []string
	Outcome     string
	OutcomeType OutcomeType
}

// EqualCovariates reports whether both schemas carry the same covariate
// columns in the same order. Outcome layout is ignored; prediction tasks may
// legitimately omit the outcome.
func (s Schema) EqualCovariates(o Schema) bool {
	if len(s.Covariates) != len(o.Covariates) {
		return false
	}
	for i, name := range s.Covariates {
		if o.Covariates[i] != name {
			return false
		}
	}
	return true
}

// DiffCovariates returns the covariates of s absent from o (missing) and the
// covariates of o beyond s (extra). Both empty with EqualCovariates false
// means the columns match as sets but differ in order.
func (s Schema) DiffCovariates(o Schema) (missing, extra []string) {
	have := make(map[string]bool, len(o.Covariates))
	for _, name := range o.Covariates {
		have[name] = true
	}
	for _, name := range s.Covariates {
		if !have[name] {
			missing = append(missing, name)
		}
	}
	trained := make(map[string]bool, len(s.Covariates))
	for _, name := range s.Covariates {
		trained[name] = true
	}
	for _, name := range o.Covariates {
		if !trained[name] {
			extra = append(extra, name)
		}
	}
	return missing, extra
}
