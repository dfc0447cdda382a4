package validators

import "go.mongodb.org/mongo-driver/bson"

var integer = bson.A{"int", "long"}

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id",
			"status",
			"booking_source",
			"guest_count",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"draft_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"confirmed",
					"cancelled",
					"completed",
					"no_show",
					"draft",
				},
			},

			"booking_source": bson.M{
				"bsonType": "string",
				"enum":     []string{"scheduler", "website", "admin"},
			},

			"session": bson.M{
				"bsonType": "string",
				"enum":     []string{"saturday_lunch", "saturday_dinner", "sunday_lunch"},
			},

			"scheduled_start": bson.M{
				"bsonType": bson.A{"date", "null"},
			},

			"scheduled_end": bson.M{
				"bsonType": bson.A{"date", "null"},
			},

			"guest_count": bson.M{
				"bsonType": integer,
				"minimum":  1,
				"maximum":  20,
			},

			"phone": bson.M{
				"bsonType":  "string",
				"maxLength": 20,
			},

			"notes": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"scheduler_event_uri": bson.M{
				"bsonType": "string",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
