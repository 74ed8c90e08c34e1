package xhtmlsafe

// depthCounter counts how many unacceptable elements are open in one
// scope. It never goes below zero, so a forged close tag cannot cancel a
// later open one.
type depthCounter int

func (c *depthCounter) enter() { *c++ }

func (c *depthCounter) leave() {
	if *c > 0 {
		*c--
	}
}

func (c depthCounter) active() bool { return c > 0 }

// suppressionState is owned by a single run. The outer counter governs
// ordinary markup, the local counter governs content re-parsed from
// <![CDATA[...]]> sections. Neither consults the other.
type suppressionState struct {
	outer depthCounter
	local depthCounter

	inMarked bool

	// markedDirty is set after a marked section has been sanitized and
	// cleared by the next ordinary tag, which also discards whatever
	// suppression the section left open.
	markedDirty bool
}

func (st *suppressionState) scope() *depthCounter {
	if st.inMarked {
		return &st.local
	}
	return &st.outer
}

func (st *suppressionState) suppressed() bool {
	return st.scope().active()
}

func (st *suppressionState) open()  { st.scope().enter() }
func (st *suppressionState) close() { st.scope().leave() }

// enterMarked switches suppression to the local counter and returns a
// func restoring the previous scope.
func (st *suppressionState) enterMarked() func() {
	prev := st.inMarked
	st.inMarked = true
	return func() {
		st.inMarked = prev
		st.markedDirty = true
	}
}

// ordinaryTag is called for every tag outside marked sections. It reports
// whether residual marked-section state was discarded.
func (st *suppressionState) ordinaryTag() bool {
	if st.inMarked || !st.markedDirty {
		return false
	}
	st.markedDirty = false
	discarded := st.local.active()
	st.local = 0
	return discarded
}

// pending reports whether either counter is still inside an unacceptable
// element.
func (st *suppressionState) pending() bool {
	return st.outer.active() || st.local.active()
}
