package validators

import "go.mongodb.org/mongo-driver/bson"

var ReservationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"token",
			"teacher_id",
			"date",
			"start_time",
			"end_time",
			"booking_id",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			// Composite slot key, e.g. res_<teacher>_<date>_<start>_<end>.
			"_id": bson.M{
				"bsonType": "string",
				"pattern":  "^res_",
			},

			"token": bson.M{
				"bsonType":  "string",
				"minLength": 36,
				"maxLength": 36,
			},

			"teacher_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"date": bson.M{
				"bsonType": "string",
				"pattern":  "^[0-9]{4}-[0-9]{2}-[0-9]{2}$",
			},

			"start_time": bson.M{
				"bsonType": "string",
				"pattern":  "^([01][0-9]|2[0-3]):[0-5][0-9]$",
			},

			"end_time": bson.M{
				"bsonType": "string",
				"pattern":  "^([01][0-9]|2[0-3]):[0-5][0-9]$",
			},

			// Empty until the reservation is consumed by a booking.
			"booking_id": bson.M{
				"bsonType": "string",
			},

			// Absent on consumed reservations so the TTL sweeper skips them.
			"reserved_until": bson.M{
				"bsonType": "date",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
