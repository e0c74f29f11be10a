package icon

// imaging registers png, jpeg, gif, bmp and tiff; webp is decode-only.
import _ "golang.org/x/image/webp"
