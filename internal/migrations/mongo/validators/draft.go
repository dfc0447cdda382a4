package validators

import "go.mongodb.org/mongo-driver/bson"

var DraftValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"user_id", "name", "phone", "guest_count", "status", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":         bson.M{"bsonType": "objectId"},
			"user_id":     bson.M{"bsonType": "string"},
			"name":        bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
			"email":       bson.M{"bsonType": "string"},
			"phone":       bson.M{"bsonType": "string", "maxLength": 20},
			"guest_count": bson.M{"bsonType": integer, "minimum": 1, "maximum": 20},
			"notes":       bson.M{"bsonType": "string", "maxLength": 500},
			"status":      bson.M{"bsonType": "string", "enum": []string{"submitted", "booked"}},
			"created_at":  bson.M{"bsonType": "date"},
		},
	},
}
