package stats

// TabCounters tracks the per-tab outcome counts of a sync run.
type TabCounters struct {
	Synced  int
	Error   int
	Skipped int
	Total   int
}

// Collector keeps one counter set per workbook tab. Counters start at zero
// and only ever increase.
type Collector struct {
	order []string
	tabs  map[string]*TabCounters
}

// NewCollector creates a collector with the given tabs pre-registered.
func NewCollector(tabs ...string) *Collector {
	c := &Collector{tabs: make(map[string]*TabCounters)}
	for _, tab := range tabs {
		c.register(tab)
	}
	return c
}

func (c *Collector) register(tab string) *TabCounters {
	if counters, ok := c.tabs[tab]; ok {
		return counters
	}
	counters := &TabCounters{}
	c.tabs[tab] = counters
	c.order = append(c.order, tab)
	return counters
}

// AddSynced increments the synced and total counters for a tab.
func (c *Collector) AddSynced(tab string) {
	counters := c.register(tab)
	counters.Synced++
	counters.Total++
}

// AddError increments the error and total counters for a tab.
func (c *Collector) AddError(tab string) {
	counters := c.register(tab)
	counters.Error++
	counters.Total++
}

// AddSkipped increments the skipped and total counters for a tab.
func (c *Collector) AddSkipped(tab string) {
	counters := c.register(tab)
	counters.Skipped++
	counters.Total++
}

// HasErrors reports whether any tab recorded at least one error.
func (c *Collector) HasErrors() bool {
	for _, counters := range c.tabs {
		if counters.Error > 0 {
			return true
		}
	}
	return false
}

// Tabs returns the tab names in registration order.
func (c *Collector) Tabs() []string {
	return append([]string(nil), c.order...)
}

// Counters returns the counter snapshot for a tab.
func (c *Collector) Counters(tab string) TabCounters {
	if counters, ok := c.tabs[tab]; ok {
		return *counters
	}
	return TabCounters{}
}

// Message is one structured validation failure recorded before any network
// I/O happens.
type Message struct {
	Section string
	Item    string
	Text    string
}

// ErrorMessages collects validation messages for batch reporting.
type ErrorMessages struct {
	messages []Message
}

// NewErrorMessages creates an empty message collector.
func NewErrorMessages() *ErrorMessages {
	return &ErrorMessages{}
}

// Add records one validation message.
func (m *ErrorMessages) Add(section, item, text string) {
	m.messages = append(m.messages, Message{Section: section, Item: item, Text: text})
}

// Empty reports whether no messages were recorded.
func (m *ErrorMessages) Empty() bool {
	return len(m.messages) == 0
}

// Messages returns the recorded messages in insertion order.
func (m *ErrorMessages) Messages() []Message {
	return append([]Message(nil), m.messages...)
}
