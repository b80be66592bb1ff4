package response

// User-visible messages. The storefront and admin panel are Arabic only.
const (
	MsgCreated            = "تمت الإضافة بنجاح"
	MsgBadRequest         = "طلب غير صالح"
	MsgUnauthorized       = "غير مصرح لك بالدخول"
	MsgSessionExpired     = "انتهت الجلسة، الرجاء تسجيل الدخول مرة أخرى"
	MsgInvalidCredentials = "بيانات الدخول غير صحيحة"
	MsgForbidden          = "لا تملك صلاحية لهذا الإجراء"
	MsgNotFound           = "العنصر غير موجود"
	MsgTooManyRequests    = "محاولات كثيرة، حاول لاحقاً"
	MsgValidationFailed   = "يرجى التحقق من البيانات المدخلة"
	MsgUnexpected         = "حصل خطأ غير متوقع، حاول مرة أخرى"
	MsgServiceUnavailable = "الخدمة غير متاحة حالياً"

	MsgOrderSubmitFailed  = "صار خطأ أثناء إرسال الطلب، حاول مرة أخرى"
	MsgOrderSubmitted     = "تم إرسال طلبك بنجاح"
	MsgEmptyCart          = "السلة فارغة"
	MsgMissingField       = "الرجاء إدخال الاسم ورقم الهاتف"
	MsgUniversityMismatch = "لا يمكن إضافة مواد من جامعات مختلفة في نفس الطلب"
	MsgInvalidQuantity    = "الكمية يجب أن تكون 1 أو أكثر"
	MsgQuantityTooLarge   = "الكمية أكبر من الحد المسموح (99)"
	MsgCourseUnavailable  = "المادة غير متوفرة حالياً"
	MsgCartNotFound       = "السلة غير موجودة أو انتهت صلاحيتها"

	MsgStatusUpdated      = "تم تحديث حالة الطلب"
	MsgStatusUpdateFailed = "حدث خطأ أثناء تحديث الحالة"
	MsgUnknownStatus      = "حالة الطلب غير معروفة"
	MsgOrderNotFound      = "الطلب غير موجود"

	MsgPDFNotAvailable = "النسخة الإلكترونية غير متوفرة لهذه المادة"
	MsgInvalidPDF      = "ملف PDF غير صالح"
	MsgLoggedOut       = "تم تسجيل الخروج"
)
