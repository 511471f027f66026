package chat

// Room naming shared by the application layer (which decides where an event
// goes) and the realtime transport (which delivers it). "*" is interpreted by
// the transport as every live session.
const RoomGlobal = "*"

// ConversationRoom is joined and left on explicit client intent while a
// thread is on screen.
func ConversationRoom(conversationID string) string {
	return "conversation_" + conversationID
}

// UserRoom is each user's personal room, joined automatically for the whole
// session; notifications land here regardless of which thread is open.
func UserRoom(userID string) string {
	return "user_" + userID
}
