package models

// Board represents a collaboration workspace containing tasks.
type Board struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	OwnerID string `json:"owner_id"`
}

// BoardSummary is the list/create response shape. The counts are computed by
// aggregation at read time, never stored.
type BoardSummary struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	MemberCount        int    `json:"member_count"`
	TicketCount        int    `json:"ticket_count"`
	TasksToDoCount     int    `json:"tasks_to_do_count"`
	TasksHighPrioCount int    `json:"tasks_high_prio_count"`
	OwnerID            string `json:"owner_id"`
}

// BoardDetail is the retrieve response shape, with the member list and tasks
// expanded.
type BoardDetail struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	OwnerID string `json:"owner_id"`
	Members []User `json:"members"`
	Tasks   []Task `json:"tasks"`
}

// BoardUpdateResponse is the update response shape, which expands the owner
// instead of the task list.
type BoardUpdateResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	OwnerData   User   `json:"owner_data"`
	MembersData []User `json:"members_data"`
}
