package session

// Summary aggregates the recorded assessments of a session.
type Summary struct {
	StudentName string
	Total       int
	// Strong, Developing and NeedsWork hold topic names in catalog order.
	// NeedsWork also receives ERROR ratings.
	Strong     []string
	Developing []string
	NeedsWork  []string
	// Required is the STRONG count needed for Ready.
	Required int
	Ready    bool
}

// Assessed returns the number of topics with a recorded assessment.
func (s Summary) Assessed() int {
	return len(s.Strong) + len(s.Developing) + len(s.NeedsWork)
}

// Summarize buckets recorded assessments by rating and computes readiness.
func (c *Controller) Summarize() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.catalog.Len()
	sum := Summary{
		StudentName: c.state.StudentName,
		Total:       n,
		Required:    c.cfg.RequiredStrong(n),
	}
	for i := 0; i < n; i++ {
		conv, ok := c.state.Conversations[i]
		if !ok || conv.Assessment == nil {
			continue
		}
		t, _ := c.catalog.Topic(i)
		switch conv.Assessment.Rating {
		case RatingStrong:
			sum.Strong = append(sum.Strong, t.Topic)
		case RatingDeveloping:
			sum.Developing = append(sum.Developing, t.Topic)
		default:
			sum.NeedsWork = append(sum.NeedsWork, t.Topic)
		}
	}
	sum.Ready = len(sum.Strong) >= sum.Required
	return sum
}
