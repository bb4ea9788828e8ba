package models

// Explicit, total mapping functions between entities and DTOs. Every field
// of the target is assigned here so schema drift shows up as a compile error
// or a failing mapper test, not a silently dropped field.

func NewUserDTO(u User) UserDTO {
	return UserDTO{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

func NewCommentDTO(c Comment, authorName string) CommentDTO {
	return CommentDTO{
		ID:         c.ID,
		Text:       c.Text,
		AuthorName: authorName,
		Created:    c.Created,
	}
}

func NewItemDTO(i Item, comments []CommentDTO) ItemDTO {
	if comments == nil {
		comments = []CommentDTO{}
	}
	return ItemDTO{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Available:   i.Available,
		RequestID:   i.RequestID,
		Comments:    comments,
	}
}

func NewBookingDTO(b Booking, item Item, booker User) BookingDTO {
	return BookingDTO{
		ID:     b.ID,
		ItemID: b.ItemID,
		Status: b.Status,
		Start:  b.Start,
		End:    b.End,
		Item:   NewItemDTO(item, nil),
		Booker: NewUserDTO(booker),
	}
}

func NewBookingRefDTO(b Booking) BookingRefDTO {
	return BookingRefDTO{
		ID:       b.ID,
		BookerID: b.BookerID,
		Start:    b.Start,
		End:      b.End,
	}
}

func NewItemWithBookingsDTO(i Item, last, next *Booking, comments []CommentDTO) ItemWithBookingsDTO {
	if comments == nil {
		comments = []CommentDTO{}
	}
	dto := ItemWithBookingsDTO{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Available:   i.Available,
		Comments:    comments,
	}
	if last != nil {
		ref := NewBookingRefDTO(*last)
		dto.LastBooking = &ref
	}
	if next != nil {
		ref := NewBookingRefDTO(*next)
		dto.NextBooking = &ref
	}
	return dto
}

func NewItemForRequestDTO(i Item) ItemForRequestDTO {
	return ItemForRequestDTO{
		ID:      i.ID,
		Name:    i.Name,
		OwnerID: i.OwnerID,
	}
}

func NewRequestDTO(r Request, requester User) RequestDTO {
	return RequestDTO{
		ID:          r.ID,
		Description: r.Description,
		Requester:   NewUserDTO(requester),
		Created:     r.Created,
	}
}

func NewRequestWithItemsDTO(r Request, requester User, items []Item) RequestWithItemsDTO {
	dtos := make([]ItemForRequestDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, NewItemForRequestDTO(item))
	}
	return RequestWithItemsDTO{
		ID:          r.ID,
		Description: r.Description,
		Requester:   NewUserDTO(requester),
		Created:     r.Created,
		Items:       dtos,
	}
}
