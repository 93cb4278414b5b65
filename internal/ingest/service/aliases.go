package service

import "github.com/smallbiznis/billboards/internal/ingest/sheet"

const (
	fieldName           = "name"
	fieldSize           = "size"
	fieldLevel          = "level"
	fieldPrice          = "price"
	fieldMunicipality   = "municipality"
	fieldDistrict       = "district"
	fieldLandmark       = "landmark"
	fieldFaces          = "faces"
	fieldCoordinates    = "coordinates"
	fieldLatitude       = "latitude"
	fieldLongitude      = "longitude"
	fieldImage          = "image_url"
	fieldContractNumber = "contract_number"
	fieldCustomerID     = "customer_id"
	fieldCustomerName   = "customer_name"
	fieldAdType         = "ad_type"
	fieldStartDate      = "start_date"
	fieldEndDate        = "end_date"
	fieldRentCost       = "rent_cost"
	fieldBillboardIDs   = "billboard_ids"
	fieldAmount         = "amount"
	fieldMethod         = "method"
	fieldReference      = "reference"
	fieldNotes          = "notes"
	fieldPaidAt         = "paid_at"
	fieldEntryType      = "entry_type"
	fieldCategory       = "category"
	fieldMonths         = "months"
)

var billboardAliases = sheet.Aliases{
	fieldName:         {"Billboard_Name", "Billboard Name", "code", "اسم اللوحة"},
	fieldSize:         {"Size", "Billboard size", "المقاس"},
	fieldLevel:        {"Level", "tier", "المستوى"},
	fieldPrice:        {"Price", "rent", "Rent_Price", "monthly_price", "السعر"},
	fieldMunicipality: {"Municipality", "City_Council", "city", "البلدية"},
	fieldDistrict:     {"District", "Area", "المنطقة"},
	fieldLandmark:     {"Nearest_Landmark", "location", "landmark", "أقرب نقطة دالة"},
	fieldFaces:        {"Faces", "Number_of_Faces", "Number of Faces", "Faces_Count", "عدد الاوجه"},
	fieldCoordinates:  {"GPS_Coordinates", "GPS", "coords", "الإحداثيات"},
	fieldLatitude:     {"Latitude", "lat"},
	fieldLongitude:    {"Longitude", "lng"},
	fieldImage:        {"Image", "Image_URL", "@IMAGE", "billboard_image", "imageUrl", "img", "الصورة"},
}

var contractAliases = sheet.Aliases{
	fieldContractNumber: {"Contract_Number", "Contract Number", "id", "رقم العقد"},
	fieldCustomerID:     {"customer id"},
	fieldCustomerName:   {"Customer Name", "customer", "اسم الزبون"},
	fieldAdType:         {"Ad Type", "نوع الإعلان"},
	fieldStartDate:      {"Start Date", "Contract Date", "تاريخ البداية"},
	fieldEndDate:        {"End Date", "تاريخ النهاية"},
	fieldRentCost:       {"Total Rent", "rent", "قيمة العقد"},
	fieldBillboardIDs:   {"Billboards", "billboard ids", "اللوحات"},
}

var paymentAliases = sheet.Aliases{
	fieldCustomerID:     {"customer id"},
	fieldCustomerName:   {"Customer Name", "customer", "اسم الزبون"},
	fieldContractNumber: {"Contract_Number", "Contract Number", "رقم العقد"},
	fieldAmount:         {"Amount", "المبلغ"},
	fieldMethod:         {"Method", "payment method", "طريقة الدفع"},
	fieldReference:      {"Reference", "ref", "المرجع"},
	fieldNotes:          {"Notes", "ملاحظات"},
	fieldPaidAt:         {"Paid At", "Date", "التاريخ"},
	fieldEntryType:      {"Entry Type", "Type", "النوع"},
}

var rateCardAliases = sheet.Aliases{
	fieldSize:     {"Size", "المقاس"},
	fieldLevel:    {"Level", "المستوى"},
	fieldCategory: {"Category", "Customer Category", "customer type", "الفئة"},
	fieldMonths:   {"Months", "Duration", "المدة"},
	fieldPrice:    {"Price", "السعر"},
}
