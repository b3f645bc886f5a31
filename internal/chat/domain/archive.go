package domain

// ArchiveBucket holds one room's archived talk messages for one day.
type ArchiveBucket struct {
	RoomID   string            `bson:"room_id" json:"room_id"`
	Date     string            `bson:"date" json:"date"` // "2006-01-02"
	Messages []ArchivedMessage `bson:"messages" json:"messages"`
}

// ArchivedMessage is the archive projection of a persisted talk message.
type ArchivedMessage struct {
	MessageID int64  `bson:"message_id" json:"message_id"`
	SenderID  int64  `bson:"sender_id" json:"sender_id"`
	Content   string `bson:"content" json:"content"`
	Timestamp int64  `bson:"timestamp" json:"timestamp"`
}
